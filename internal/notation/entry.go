package notation

// Symbols recognized inside a pitch entry after normalization.
const (
	hiddenMark = 'x'
	raiseMark  = '\''
	lowerMark  = ','
	sharpMark  = 's'
	flatMark   = 'f'
)

// noteLetter is one of the seven diatonic note names.
type noteLetter int

const (
	noteC noteLetter = iota
	noteD
	noteE
	noteF
	noteG
	noteA
	noteB
)

func letterFromRune(r rune) (noteLetter, bool) {
	switch r {
	case 'c':
		return noteC, true
	case 'd':
		return noteD, true
	case 'e':
		return noteE, true
	case 'f':
		return noteF, true
	case 'g':
		return noteG, true
	case 'a':
		return noteA, true
	case 'b':
		return noteB, true
	}
	return 0, false
}

// pitchClass returns the semitone offset from c. The scale is diatonic with
// no default accidental.
func (l noteLetter) pitchClass() int {
	switch l {
	case noteC:
		return 0
	case noteD:
		return 2
	case noteE:
		return 4
	case noteF:
		return 5
	case noteG:
		return 7
	case noteA:
		return 9
	case noteB:
		return 11
	}
	return 0
}

// degree returns the letter's position in the seven-note scale, used for the
// nearest-interval octave rule.
func (l noteLetter) degree() int {
	return int(l)
}

func (l noteLetter) String() string {
	return string([]rune{'c', 'd', 'e', 'f', 'g', 'a', 'b'}[l])
}

// markKind classifies the characters allowed after the note letter.
type markKind int

const (
	markRaise markKind = iota
	markLower
	markSharp
	markFlat
	markDigit
)

// mark is one octave or accidental symbol; digit holds the octave value when
// kind is markDigit.
type mark struct {
	kind  markKind
	digit int
}

func markFromRune(r rune) (mark, bool) {
	switch {
	case r == raiseMark:
		return mark{kind: markRaise}, true
	case r == lowerMark:
		return mark{kind: markLower}, true
	case r == sharpMark:
		return mark{kind: markSharp}, true
	case r == flatMark:
		return mark{kind: markFlat}, true
	case r >= '0' && r <= '9':
		return mark{kind: markDigit, digit: int(r - '0')}, true
	}
	return mark{}, false
}

// entryToken is the parsed form of a single pitch entry. Tokens are ephemeral:
// they exist only between parsing an entry and resolving its pitch.
type entryToken struct {
	raw    string
	hidden bool
	letter noteLetter
	marks  []mark
}

// parseEntry validates one pitch entry character by character. The note letter
// must be present before any other field is inspected; everything after it has
// to belong to the octave/accidental/digit alphabet.
func parseEntry(raw, chord string) (entryToken, *entryError) {
	tok := entryToken{raw: raw}

	runes := []rune(raw)
	if len(runes) == 0 {
		// The tokenizer never emits empty entries; reaching the letter check
		// with one is an engine invariant violation, not author input.
		return tok, &entryError{kind: errEngineInternal, entry: raw, chord: chord}
	}

	i := 0
	if runes[i] == hiddenMark {
		tok.hidden = true
		i++
	}

	if i >= len(runes) {
		return tok, &entryError{kind: errInvalidNoteName, entry: raw, chord: chord}
	}
	letter, ok := letterFromRune(runes[i])
	if !ok {
		return tok, &entryError{kind: errInvalidNoteName, entry: raw, chord: chord}
	}
	tok.letter = letter
	i++

	var residue []rune
	for _, r := range runes[i:] {
		m, ok := markFromRune(r)
		if !ok {
			residue = append(residue, r)
			continue
		}
		tok.marks = append(tok.marks, m)
	}
	if len(residue) > 0 {
		return tok, &entryError{
			kind:    errUnrecognizedSymbol,
			entry:   raw,
			chord:   chord,
			residue: string(residue),
		}
	}

	return tok, nil
}

// accidentalOffset sums the entry's sharps and flats; marks stack, so ss is a
// double sharp.
func (t entryToken) accidentalOffset() int {
	offset := 0
	for _, m := range t.marks {
		switch m.kind {
		case markSharp:
			offset++
		case markFlat:
			offset--
		}
	}
	return offset
}

// resolveOctave computes the entry's absolute octave. The starting point is
// the previous note's octave adjusted by the nearest-interval rule (or the
// base octave when there is no previous note); raise and lower marks then
// shift it, and an explicit digit replaces it outright, discarding whatever
// was accumulated before the digit.
func resolveOctave(tok entryToken, prev *prevNote) int {
	base := baseOctave
	change := 0
	if prev != nil {
		base = prev.octave
		change = stepToNearest(prev.letter, tok.letter)
	}

	for _, m := range tok.marks {
		switch m.kind {
		case markRaise:
			change++
		case markLower:
			change--
		case markDigit:
			base = m.digit
			change = 0
		}
	}
	return base + change
}

// stepToNearest implements the relative-octave rule from LilyPond's pitch
// notation: without marks, a note sits in the octave that keeps it within a
// fifth of the previous note. Letter distances beyond that wrap to the other
// direction, shifting the octave by one.
func stepToNearest(prev, cur noteLetter) int {
	d := prev.degree() - cur.degree()
	if d < 0 {
		d--
	} else {
		d++
	}
	switch {
	case d > 5:
		return 1
	case d < -5:
		return -1
	}
	return 0
}
