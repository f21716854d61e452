package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonylab/lab-api/internal/exercise"
)

func validDefinition(t *testing.T) *exercise.Definition {
	t.Helper()
	def := exercise.New(map[string]any{
		exercise.NotationField: "<c e g>1",
	})
	require.True(t, def.IsValid())
	return def
}

func TestCreateExerciseAssignsSequentialNames(t *testing.T) {
	s := NewFileStore(t.TempDir())

	first, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, "01", first.Name)

	second, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, "02", second.Name)
	assert.Equal(t, "triads/02", second.ID())
}

func TestCreateExerciseSkipsTakenNames(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	// A stray file at "02" collides with the count-based candidate.
	group := filepath.Join(dir, "all", "triads")
	require.NoError(t, os.MkdirAll(group, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(group, "02.json"), []byte("{}"), 0o644))

	ex, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, "03", ex.Name)
}

func TestCreateExerciseRejectsInvalidDefinition(t *testing.T) {
	s := NewFileStore(t.TempDir())
	def := exercise.New(map[string]any{
		exercise.NotationField: "<z>1",
	})
	require.False(t, def.IsValid())

	_, err := s.CreateExercise("", "triads", def)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestCreateExerciseScrubsGroupName(t *testing.T) {
	s := NewFileStore(t.TempDir())

	ex, err := s.CreateExercise("", "my group!?", validDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, "mygroup", ex.GroupName)
}

func TestCreateExerciseRejectsEmptyScrubbedGroup(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.CreateExercise("", "!!!", validDefinition(t))
	assert.Error(t, err)
}

func TestGetExercise(t *testing.T) {
	s := NewFileStore(t.TempDir())

	created, err := s.CreateExercise("theory-101", "triads", validDefinition(t))
	require.NoError(t, err)

	loaded, err := s.GetExercise("theory-101", "triads", created.Name)
	require.NoError(t, err)
	assert.True(t, loaded.Definition.IsValid())
	assert.Equal(t, created.Definition.Chords(), loaded.Definition.Chords())
}

func TestGetExerciseNotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.GetExercise("", "triads", "01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListGroups(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.CreateExercise("", "Seventh-chords", validDefinition(t))
	require.NoError(t, err)
	_, err = s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	_, err = s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)

	groups, err := s.ListGroups("")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Case-insensitive ordering: "Seventh-chords" before "triads".
	assert.Equal(t, "Seventh-chords", groups[0].Name)
	assert.Equal(t, 1, groups[0].Size)
	assert.Equal(t, "triads", groups[1].Name)
	assert.Equal(t, 2, groups[1].Size)
}

func TestListGroupsEmptyCourse(t *testing.T) {
	s := NewFileStore(t.TempDir())

	groups, err := s.ListGroups("never-authored")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestListGroupsNested(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.CreateExercise("", "unit1/triads", validDefinition(t))
	require.NoError(t, err)

	groups, err := s.ListGroups("")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "unit1/triads", groups[0].Name)
}

func TestListExercises(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	_, err = s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)

	refs, err := s.ListExercises("", "triads")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "01", refs[0].Name)
	assert.Equal(t, "triads/01", refs[0].ID)
	assert.Equal(t, "02", refs[1].Name)
}

func TestListExercisesGroupNotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.ListExercises("", "nope")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteExercisePrunesEmptyGroup(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	ex, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteExercise("", "triads", ex.Name))

	_, statErr := os.Stat(filepath.Join(dir, "all", "triads"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeleteExerciseKeepsGroupWithRemainingFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	_, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)
	_, err = s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteExercise("", "triads", "01"))

	refs, err := s.ListExercises("", "triads")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "02", refs[0].Name)
}

func TestDeleteExerciseNotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	assert.ErrorIs(t, s.DeleteExercise("", "triads", "01"), ErrNotFound)
}

func TestDeleteGroup(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.CreateExercise("", "triads", validDefinition(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteGroup("", "triads"))

	groups, err := s.ListGroups("")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeleteGroupNotFound(t *testing.T) {
	s := NewFileStore(t.TempDir())
	assert.ErrorIs(t, s.DeleteGroup("", "triads"), ErrGroupNotFound)
}

func TestScrubGroupName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"triads", "triads"},
		{"my group", "mygroup"},
		{"unit1/triads", "unit1/triads"},
		{"a&b#c", "abc"},
		{"dots.and_scores-ok", "dots.and_scores-ok"},
		{"../../escaped", "escaped"},
		{"a/../b", "a/b"},
		{"./triads", "triads"},
		{"a//b", "a/b"},
		{"..", ""},
		{"...", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScrubGroupName(tt.in), "input %q", tt.in)
	}
}

func TestCreateExerciseContainsTraversalGroup(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "data")
	s := NewFileStore(base)

	ex, err := s.CreateExercise("", "../../escaped", validDefinition(t))
	require.NoError(t, err)
	assert.Equal(t, "escaped", ex.GroupName)

	// The file landed inside the store, not beside it.
	_, err = os.Stat(filepath.Join(base, "all", "escaped", "01.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(parent, "escaped"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteGroupContainsTraversal(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "data")
	outside := filepath.Join(parent, "outside")
	require.NoError(t, os.MkdirAll(outside, 0o755))

	s := NewFileStore(base)
	assert.ErrorIs(t, s.DeleteGroup("", "../outside"), ErrGroupNotFound)
	assert.ErrorIs(t, s.DeleteGroup("", ".."), ErrGroupNotFound)

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestGetExerciseContainsTraversal(t *testing.T) {
	parent := t.TempDir()
	base := filepath.Join(parent, "data")
	outside := filepath.Join(parent, "outside")
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "01.json"), []byte("{}"), 0o644))

	s := NewFileStore(base)
	_, err := s.GetExercise("", "../outside", "01")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.MkdirAll(filepath.Join(base, "all"), 0o755))
	assert.ErrorIs(t, s.DeleteExercise("", "../outside", "01"), ErrNotFound)
	_, err = os.Stat(filepath.Join(outside, "01.json"))
	assert.NoError(t, err)
}

func TestNextExerciseName(t *testing.T) {
	none := func(string) bool { return false }

	name, err := nextExerciseName(0, none)
	require.NoError(t, err)
	assert.Equal(t, "01", name)

	name, err = nextExerciseName(8, none)
	require.NoError(t, err)
	assert.Equal(t, "09", name)

	name, err = nextExerciseName(1, func(n string) bool { return n == "02" })
	require.NoError(t, err)
	assert.Equal(t, "03", name)

	_, err = nextExerciseName(99, none)
	assert.Error(t, err)
}
