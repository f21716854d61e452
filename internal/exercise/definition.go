// Package exercise validates and enriches exercise definitions before they
// are persisted or served.
package exercise

import (
	"encoding/json"
	"fmt"

	"github.com/harmonylab/lab-api/internal/notation"
)

const (
	// NotationField is the authored field holding the chord notation string.
	NotationField = "lilypond_chords"
	// ChordField is the key the translated MIDI chord data is merged under.
	ChordField = "chord"
	// DefaultType is assumed when the author omits the exercise type.
	DefaultType = "matching"
)

// Definition wraps one exercise payload (a decoded JSON object). Construction
// runs the notation engine over the authored chord notation and merges the
// result into the payload; an invalid notation string makes the whole
// definition invalid and must keep it from being persisted.
type Definition struct {
	data    map[string]any
	chords  []notation.MIDIChord
	errors  []string
	isValid bool
}

// New processes a raw exercise payload. The input map is copied, never
// mutated.
func New(data map[string]any) *Definition {
	d := &Definition{
		data:    make(map[string]any, len(data)+2),
		errors:  []string{},
		isValid: true,
	}
	for k, v := range data {
		d.data[k] = v
	}
	d.process()
	return d
}

// FromJSON decodes a stored exercise payload and re-processes it.
func FromJSON(raw []byte) (*Definition, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding exercise definition: %w", err)
	}
	return New(data), nil
}

func (d *Definition) process() {
	if _, ok := d.data["type"]; !ok {
		d.data["type"] = DefaultType
	}

	raw, ok := d.data[NotationField]
	if !ok {
		return
	}
	text, ok := raw.(string)
	if !ok {
		d.isValid = false
		d.errors = append(d.errors, fmt.Sprintf("%s must be a string", NotationField))
		return
	}

	res := notation.Parse(text)
	if !res.IsValid {
		d.isValid = false
		d.errors = append(d.errors, res.Errors...)
		return
	}
	d.chords = res.Chords
	d.data[ChordField] = res.Chords
}

// IsValid reports whether the definition may be persisted.
func (d *Definition) IsValid() bool {
	return d.isValid
}

// Errors returns the accumulated validation errors, author-readable.
func (d *Definition) Errors() []string {
	return d.errors
}

// Data returns the processed payload, including the merged chord data.
func (d *Definition) Data() map[string]any {
	return d.data
}

// Chords returns the translated MIDI chords, empty when the definition has no
// notation field or failed validation.
func (d *Definition) Chords() []notation.MIDIChord {
	return d.chords
}

// ToJSON serializes the processed payload for storage.
func (d *Definition) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d.data, "", "    ")
}
