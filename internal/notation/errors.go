package notation

import "fmt"

// errorKind is the engine's error taxonomy. Author-facing validation errors
// (invalid note name, unrecognized symbol) are recovered into the ParseResult
// error list; engine-internal errors flag invariant violations that should
// never occur for any input.
type errorKind int

const (
	errInvalidNoteName errorKind = iota
	errUnrecognizedSymbol
	errEngineInternal
)

// entryError describes a failed pitch entry, carrying enough context to
// render a precise diagnostic to the exercise author.
type entryError struct {
	kind    errorKind
	entry   string
	chord   string
	residue string
}

func (e *entryError) Error() string {
	switch e.kind {
	case errInvalidNoteName:
		return fmt.Sprintf("Pitch [%s] in chord [%s] is invalid: missing or invalid note name", e.entry, e.chord)
	case errUnrecognizedSymbol:
		return fmt.Sprintf("Pitch entry [%s] in chord [%s] contains unrecognized symbols: %s", e.entry, e.chord, e.residue)
	default:
		return fmt.Sprintf("Pitch entry [%s] in chord [%s] violated a parser invariant", e.entry, e.chord)
	}
}
