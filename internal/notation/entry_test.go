package notation

import "testing"

func TestStepToNearest(t *testing.T) {
	tests := []struct {
		name     string
		prev     noteLetter
		cur      noteLetter
		expected int
	}{
		{name: "unison", prev: noteC, cur: noteC, expected: 0},
		{name: "second up", prev: noteC, cur: noteD, expected: 0},
		{name: "fifth up", prev: noteC, cur: noteG, expected: 0},
		{name: "sixth wraps down", prev: noteC, cur: noteA, expected: -1},
		{name: "seventh wraps down", prev: noteC, cur: noteB, expected: -1},
		{name: "sixth wraps up", prev: noteA, cur: noteC, expected: 1},
		{name: "seventh wraps up", prev: noteB, cur: noteC, expected: 1},
		{name: "fifth down stays", prev: noteG, cur: noteC, expected: 0},
		{name: "fourth down stays", prev: noteG, cur: noteD, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepToNearest(tt.prev, tt.cur); got != tt.expected {
				t.Errorf("stepToNearest(%v, %v) = %d, expected %d", tt.prev, tt.cur, got, tt.expected)
			}
		})
	}
}

func TestParseEntry(t *testing.T) {
	t.Run("full entry", func(t *testing.T) {
		tok, err := parseEntry("xcs'", "xcs' e")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tok.hidden {
			t.Error("expected hidden flag")
		}
		if tok.letter != noteC {
			t.Errorf("expected letter c, got %v", tok.letter)
		}
		if len(tok.marks) != 2 {
			t.Fatalf("expected two marks, got %d", len(tok.marks))
		}
		if tok.marks[0].kind != markSharp || tok.marks[1].kind != markRaise {
			t.Errorf("marks parsed out of order: %+v", tok.marks)
		}
	})

	t.Run("letter is checked before anything else", func(t *testing.T) {
		_, err := parseEntry("q'''", "q'''")
		if err == nil || err.kind != errInvalidNoteName {
			t.Fatalf("expected invalid note name, got %v", err)
		}
	})

	t.Run("hidden symbol alone has no letter", func(t *testing.T) {
		_, err := parseEntry("x", "x")
		if err == nil || err.kind != errInvalidNoteName {
			t.Fatalf("expected invalid note name, got %v", err)
		}
	})

	t.Run("residue collects every stray character", func(t *testing.T) {
		_, err := parseEntry("c'q!s~", "c'q!s~")
		if err == nil || err.kind != errUnrecognizedSymbol {
			t.Fatalf("expected unrecognized symbol, got %v", err)
		}
		if err.residue != "q!~" {
			t.Errorf("residue = %q, expected %q", err.residue, "q!~")
		}
	})

	t.Run("empty entry is an engine invariant violation", func(t *testing.T) {
		_, err := parseEntry("", "")
		if err == nil || err.kind != errEngineInternal {
			t.Fatalf("expected engine internal error, got %v", err)
		}
	})
}

func TestResolveOctave(t *testing.T) {
	g4 := &prevNote{letter: noteG, octave: 4}

	tests := []struct {
		name     string
		entry    string
		prev     *prevNote
		expected int
	}{
		{name: "no context defaults to base octave", entry: "c", prev: nil, expected: 4},
		{name: "raise from base", entry: "c'", prev: nil, expected: 5},
		{name: "context octave carries over", entry: "d", prev: g4, expected: 4},
		{name: "digit overrides context", entry: "d2", prev: g4, expected: 2},
		{name: "digit discards earlier marks", entry: "d'2", prev: g4, expected: 2},
		{name: "marks after digit apply", entry: "d2,", prev: g4, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := parseEntry(tt.entry, tt.entry)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := resolveOctave(tok, tt.prev); got != tt.expected {
				t.Errorf("resolveOctave(%q) = %d, expected %d", tt.entry, got, tt.expected)
			}
		})
	}
}
