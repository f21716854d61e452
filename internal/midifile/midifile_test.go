package midifile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/harmonylab/lab-api/internal/notation"
)

func noteStarts(t *testing.T, data []byte) []uint8 {
	t.Helper()
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, s.Tracks, 1)

	var keys []uint8
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			keys = append(keys, key)
		}
	}
	return keys
}

func TestRenderVisibleNotes(t *testing.T) {
	data, err := Render([]notation.MIDIChord{
		{Visible: []int{48, 52, 55}},
		{Visible: []int{53, 57, 60}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("MThd")))
	assert.Equal(t, []uint8{48, 52, 55, 53, 57, 60}, noteStarts(t, data))
}

func TestRenderOmitsHiddenNotes(t *testing.T) {
	data, err := Render([]notation.MIDIChord{
		{Visible: []int{52, 55}, Hidden: []int{48}},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint8{52, 55}, noteStarts(t, data))
}

func TestRenderEmptySequence(t *testing.T) {
	data, err := Render(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("MThd")))
	assert.Empty(t, noteStarts(t, data))
}

func TestRenderRejectsOutOfRangePitch(t *testing.T) {
	_, err := Render([]notation.MIDIChord{{Visible: []int{-3}}})
	assert.Error(t, err)

	_, err = Render([]notation.MIDIChord{{Visible: []int{200}}})
	assert.Error(t, err)
}

func TestRenderHiddenOnlyChordBecomesRest(t *testing.T) {
	data, err := Render([]notation.MIDIChord{
		{Hidden: []int{48}},
		{Visible: []int{60}},
	})
	require.NoError(t, err)

	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)

	// The single note-on carries the rest's delta.
	for _, ev := range s.Tracks[0] {
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			assert.Equal(t, uint8(60), key)
			assert.Equal(t, uint32(480), ev.Delta)
		}
	}
}
