package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harmonylab/lab-api/internal/exercise"
	"github.com/harmonylab/lab-api/internal/logger"
	"github.com/harmonylab/lab-api/internal/models"
)

// FileStore keeps each exercise as a JSON file under
// <base>/courses/<course>/<group>/<name>.json, or <base>/all/... when no
// course is given. Groups are directories; listings are sorted
// case-insensitively so authored sequences (01, 02, ...) stay in order.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) coursePath(course string) string {
	if course == "" {
		return filepath.Join(s.baseDir, "all")
	}
	return filepath.Join(s.baseDir, "courses", course)
}

func (s *FileStore) groupPath(course, group string) string {
	return filepath.Join(s.coursePath(course), filepath.FromSlash(group))
}

func (s *FileStore) exercisePath(course, group, name string) string {
	return filepath.Join(s.groupPath(course, group), name+".json")
}

// CreateExercise writes a valid definition to the next free file name in the
// group, creating the group directory on first use.
func (s *FileStore) CreateExercise(course, group string, def *exercise.Definition) (*Exercise, error) {
	if !def.IsValid() {
		return nil, ErrInvalidDefinition
	}

	group = ScrubGroupName(group)
	if group == "" {
		return nil, fmt.Errorf("exercise group name is empty after scrubbing")
	}

	dir := s.groupPath(course, group)
	size := len(listJSONFiles(dir))
	name, err := nextExerciseName(size, func(candidate string) bool {
		_, statErr := os.Stat(filepath.Join(dir, candidate+".json"))
		return statErr == nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := def.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("serializing exercise: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating group directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), raw, 0o644); err != nil {
		return nil, fmt.Errorf("writing exercise file: %w", err)
	}

	logger.Info("Exercise created", logger.Fields{
		"course": course,
		"group":  group,
		"name":   name,
	})
	return &Exercise{Name: name, GroupName: group, Course: course, Definition: def}, nil
}

// GetExercise loads and re-processes one stored definition.
func (s *FileStore) GetExercise(course, group, name string) (*Exercise, error) {
	group = ScrubGroupName(group)
	raw, err := os.ReadFile(s.exercisePath(course, group, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading exercise file: %w", err)
	}

	def, err := exercise.FromJSON(raw)
	if err != nil {
		return nil, err
	}
	return &Exercise{Name: name, GroupName: group, Course: course, Definition: def}, nil
}

// ListGroups walks the course directory and reports every group holding at
// least one exercise, sorted case-insensitively by name.
func (s *FileStore) ListGroups(course string) ([]models.GroupOverview, error) {
	root := s.coursePath(course)
	groups := []models.GroupOverview{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		size := len(listJSONFiles(path))
		if size == 0 || path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		groups = append(groups, models.GroupOverview{
			Name: filepath.ToSlash(rel),
			Size: size,
		})
		return nil
	})
	if os.IsNotExist(err) {
		// No exercises authored yet.
		return groups, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walking exercise directory: %w", err)
	}

	sort.Slice(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
	return groups, nil
}

// ListExercises returns the group's exercises in listing order.
func (s *FileStore) ListExercises(course, group string) ([]models.ExerciseRef, error) {
	group = ScrubGroupName(group)
	dir := s.groupPath(course, group)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, ErrGroupNotFound
	}

	refs := []models.ExerciseRef{}
	for _, name := range listJSONFiles(dir) {
		refs = append(refs, models.ExerciseRef{
			ID:        group + "/" + name,
			Name:      name,
			GroupName: group,
		})
	}
	return refs, nil
}

// DeleteExercise removes one exercise file and prunes the group directory
// when it was the last one.
func (s *FileStore) DeleteExercise(course, group, name string) error {
	group = ScrubGroupName(group)
	path := s.exercisePath(course, group, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("removing exercise file: %w", err)
	}

	// Only succeeds when the directory is empty.
	if err := os.Remove(s.groupPath(course, group)); err == nil {
		logger.Info("Removed empty group directory", logger.Fields{
			"course": course,
			"group":  group,
		})
	}
	return nil
}

// DeleteGroup removes a group and everything in it. The scrub runs here too:
// os.RemoveAll must never see a path assembled from an unscrubbed name.
func (s *FileStore) DeleteGroup(course, group string) error {
	group = ScrubGroupName(group)
	if group == "" {
		return ErrGroupNotFound
	}
	dir := s.groupPath(course, group)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrGroupNotFound
	}
	return os.RemoveAll(dir)
}

// listJSONFiles returns the base names (without extension) of the directory's
// JSON files, sorted case-insensitively.
func listJSONFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names
}
