// Package store persists exercise definitions. Two backends implement the
// same contract: a JSON-file tree (the original authoring workflow) and
// postgres for deployments that outgrow it.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/harmonylab/lab-api/internal/exercise"
	"github.com/harmonylab/lab-api/internal/models"
)

var (
	ErrNotFound          = errors.New("exercise not found")
	ErrGroupNotFound     = errors.New("exercise group not found")
	ErrInvalidDefinition = errors.New("exercise definition is not valid")
)

// Exercise pairs an exercise's location with its processed definition.
type Exercise struct {
	Name       string
	GroupName  string
	Course     string
	Definition *exercise.Definition
}

// ID returns the group-scoped identifier used in listings and URLs.
func (e *Exercise) ID() string {
	return e.GroupName + "/" + e.Name
}

// Store is the persistence collaborator around the notation engine. Invalid
// definitions are rejected by every implementation; the engine's validity
// verdict is the gate for persistence.
type Store interface {
	CreateExercise(course, group string, def *exercise.Definition) (*Exercise, error)
	GetExercise(course, group, name string) (*Exercise, error)
	ListGroups(course string) ([]models.GroupOverview, error)
	ListExercises(course, group string) ([]models.ExerciseRef, error)
	DeleteExercise(course, group, name string) error
	DeleteGroup(course, group string) error
}

var groupSegmentPattern = regexp.MustCompile(`[^a-zA-Z0-9._\-]`)

// ScrubGroupName strips characters that would escape the group namespace.
// Slashes separate nested group segments; each segment is scrubbed on its
// own, and segments that come out empty or consist only of dots are dropped,
// so a name can never traverse out of the store.
func ScrubGroupName(name string) string {
	var kept []string
	for _, segment := range strings.Split(name, "/") {
		segment = groupSegmentPattern.ReplaceAllString(segment, "")
		if segment == "" || strings.Trim(segment, ".") == "" {
			continue
		}
		kept = append(kept, segment)
	}
	return strings.Join(kept, "/")
}

const maxNameTries = 99

// nextExerciseName picks the next zero-padded name after groupSize entries,
// probing past collisions. The cap binds the initial candidate too, keeping
// names at two digits.
func nextExerciseName(groupSize int, taken func(string) bool) (string, error) {
	for n := groupSize + 1; n <= maxNameTries; n++ {
		name := fmt.Sprintf("%02d", n)
		if !taken(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unable to pick an exercise name after %d tries", maxNameTries)
}
