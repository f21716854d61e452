// Package midifile renders translated chords as Standard MIDI Files so
// exercises can be auditioned in a DAW or notation program.
package midifile

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/harmonylab/lab-api/internal/notation"
)

const (
	ticksPerQuarter = 480
	tempoBPM        = 120
	channel         = 0
	velocity        = 100
	maxMIDIPitch    = 127
)

// Render writes the chords as a single-track SMF, one quarter note per chord.
// Visible notes sound together; hidden notes are omitted. A chord with no
// visible notes becomes a quarter rest.
func Render(chords []notation.MIDIChord) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(tempoBPM))

	rest := uint32(0)
	for _, chord := range chords {
		notes := make([]uint8, 0, len(chord.Visible))
		for _, pitch := range chord.Visible {
			if pitch < 0 || pitch > maxMIDIPitch {
				return nil, fmt.Errorf("pitch %d is outside the MIDI range 0-%d", pitch, maxMIDIPitch)
			}
			notes = append(notes, uint8(pitch))
		}
		if len(notes) == 0 {
			rest += ticksPerQuarter
			continue
		}

		for i, note := range notes {
			delta := uint32(0)
			if i == 0 {
				delta = rest
			}
			track.Add(delta, midi.NoteOn(channel, note, velocity))
		}
		for i, note := range notes {
			delta := uint32(0)
			if i == 0 {
				delta = ticksPerQuarter
			}
			track.Add(delta, midi.NoteOff(channel, note))
		}
		rest = 0
	}

	track.Close(0)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("adding SMF track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing SMF: %w", err)
	}
	return buf.Bytes(), nil
}
