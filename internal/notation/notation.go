// Package notation translates the compact LilyPond-style chord notation used
// by exercise authors into MIDI note numbers.
//
// A notation string contains one or more bracketed chords, e.g.
// "<e c' g'>1 <f \xNote c' a'>1". Each chord holds whitespace-separated pitch
// entries made of a note letter (c d e f g a b), octave marks (' , or an
// explicit octave digit) and accidentals (s for sharp, f for flat). Entries
// prefixed with x (or the \xNote escape) are "hidden": they contribute pitch
// data but are excluded from the visible rendering of the chord. A bare x
// standing alone as an entry attaches to the entry that follows it, hiding
// that note; a trailing bare x is an error. Earlier renditions of this
// notation rejected the standalone form outright.
package notation

import (
	"fmt"
	"regexp"
	"strings"
)

// baseOctave is the octave assumed before any note has been seen, so an
// unmarked leading c resolves to MIDI 48.
const baseOctave = 4

var (
	chordPattern  = regexp.MustCompile(`<([^>]+)>`)
	hiddenEscape  = regexp.MustCompile(`\\xNote\s*`)
	pitchSpelling = [12]string{"c", "cs", "d", "ds", "e", "f", "fs", "g", "gs", "a", "as", "b"}
)

// MIDIChord is the translation of one bracketed chord: visible and hidden
// MIDI note numbers in entry order.
type MIDIChord struct {
	Visible []int `json:"visible"`
	Hidden  []int `json:"hidden"`
}

// ParseResult is the sole artifact Parse exposes to callers. Once returned it
// is never mutated by the engine.
type ParseResult struct {
	Chords  []MIDIChord `json:"chords"`
	Errors  []string    `json:"errors"`
	IsValid bool        `json:"is_valid"`
}

// prevNote carries the octave context from one pitch entry to the next.
// It persists across chords within a single Parse call and nowhere else.
type prevNote struct {
	letter noteLetter
	octave int
}

// Parse translates a notation string into MIDI chords.
//
// Octave policy is relative: absent explicit marks, each note lands within a
// fifth of the previous note (letter distance wrapped mod 7), shifting the
// octave by one when that threshold is crossed. An explicit octave digit sets
// the octave outright.
//
// Error policy is accumulate-and-continue: an invalid entry records an error,
// marks the result invalid and skips the rest of its chord, but subsequent
// chords are still parsed. Parse never fails outright for malformed notation.
func Parse(notation string) *ParseResult {
	res := &ParseResult{
		Chords:  []MIDIChord{},
		Errors:  []string{},
		IsValid: true,
	}

	var prev *prevNote
	for _, raw := range extractChords(notation) {
		chord, next, err := parseChord(raw, prev)
		prev = next
		if err != nil {
			res.IsValid = false
			res.Errors = append(res.Errors, err.Error())
		}
		res.Chords = append(res.Chords, chord)
	}
	return res
}

// extractChords returns the substrings between < and > delimiters in order of
// appearance. Text outside brackets (durations, line breaks) is discarded.
// Delimiters do not nest.
func extractChords(notation string) []string {
	matches := chordPattern.FindAllStringSubmatch(strings.TrimSpace(notation), -1)
	chords := make([]string, 0, len(matches))
	for _, m := range matches {
		chords = append(chords, m[1])
	}
	return chords
}

// normalizeChord rewrites the \xNote escape (plus trailing whitespace, so the
// marker glues onto the note it hides) to the single-character hidden symbol
// and lowercases the chord.
func normalizeChord(raw string) string {
	return strings.ToLower(strings.TrimSpace(hiddenEscape.ReplaceAllString(raw, string(hiddenMark))))
}

// parseChord translates one chord substring. On an entry error the chord's
// already-translated prefix is returned along with the error; the remaining
// entries are not processed.
func parseChord(raw string, prev *prevNote) (MIDIChord, *prevNote, error) {
	chord := MIDIChord{Visible: []int{}, Hidden: []int{}}
	normalized := normalizeChord(raw)

	entries := strings.Fields(normalized)
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		// A bare hidden symbol hides the entry that follows it.
		if entry == string(hiddenMark) && i+1 < len(entries) {
			i++
			entry += entries[i]
		}

		tok, err := parseEntry(entry, normalized)
		if err != nil {
			return chord, prev, err
		}

		octave := resolveOctave(tok, prev)
		pitch := octave*12 + tok.letter.pitchClass() + tok.accidentalOffset()

		if tok.hidden {
			chord.Hidden = append(chord.Hidden, pitch)
		} else {
			chord.Visible = append(chord.Visible, pitch)
		}

		// Hidden notes move the octave context just like visible ones.
		prev = &prevNote{letter: tok.letter, octave: octave}
	}
	return chord, prev, nil
}

// FormatChord renders a MIDIChord back to notation text. Every entry carries
// an explicit octave digit, so re-parsing the output reproduces the same note
// numbers regardless of surrounding context.
func FormatChord(chord MIDIChord) string {
	entries := make([]string, 0, len(chord.Visible)+len(chord.Hidden))
	for _, pitch := range chord.Visible {
		entries = append(entries, formatPitch(pitch))
	}
	for _, pitch := range chord.Hidden {
		entries = append(entries, string(hiddenMark)+formatPitch(pitch))
	}
	return "<" + strings.Join(entries, " ") + ">"
}

func formatPitch(pitch int) string {
	octave := pitch / 12
	class := pitch % 12
	if class < 0 {
		class += 12
		octave--
	}
	return fmt.Sprintf("%s%d", pitchSpelling[class], octave)
}
