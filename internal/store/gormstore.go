package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harmonylab/lab-api/internal/exercise"
	"github.com/harmonylab/lab-api/internal/models"
)

// GormStore is the postgres-backed Store. Semantics mirror FileStore: same
// name allocation, same sorted listings, same not-found behavior.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateExercise(course, group string, def *exercise.Definition) (*Exercise, error) {
	if !def.IsValid() {
		return nil, ErrInvalidDefinition
	}

	group = ScrubGroupName(group)
	if group == "" {
		return nil, fmt.Errorf("exercise group name is empty after scrubbing")
	}

	var size int64
	if err := s.db.Model(&models.ExerciseRecord{}).
		Where("course = ? AND group_name = ?", course, group).
		Count(&size).Error; err != nil {
		return nil, fmt.Errorf("counting group exercises: %w", err)
	}

	name, err := nextExerciseName(int(size), func(candidate string) bool {
		var n int64
		s.db.Model(&models.ExerciseRecord{}).
			Where("course = ? AND group_name = ? AND name = ?", course, group, candidate).
			Count(&n)
		return n > 0
	})
	if err != nil {
		return nil, err
	}

	raw, err := def.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("serializing exercise: %w", err)
	}

	record := models.ExerciseRecord{
		ID:         uuid.NewString(),
		Course:     course,
		GroupName:  group,
		Name:       name,
		Definition: raw,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &Exercise{Name: name, GroupName: group, Course: course, Definition: def}, nil
}

func (s *GormStore) GetExercise(course, group, name string) (*Exercise, error) {
	group = ScrubGroupName(group)
	var record models.ExerciseRecord
	err := s.db.Where("course = ? AND group_name = ? AND name = ?", course, group, name).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading exercise: %w", err)
	}

	def, err := exercise.FromJSON(record.Definition)
	if err != nil {
		return nil, err
	}
	return &Exercise{Name: name, GroupName: group, Course: course, Definition: def}, nil
}

func (s *GormStore) ListGroups(course string) ([]models.GroupOverview, error) {
	groups := []models.GroupOverview{}
	err := s.db.Model(&models.ExerciseRecord{}).
		Select("group_name AS name, COUNT(*) AS size").
		Where("course = ?", course).
		Group("group_name").
		Order("LOWER(group_name)").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

func (s *GormStore) ListExercises(course, group string) ([]models.ExerciseRef, error) {
	group = ScrubGroupName(group)
	var records []models.ExerciseRecord
	err := s.db.Where("course = ? AND group_name = ?", course, group).
		Order("LOWER(name)").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrGroupNotFound
	}

	refs := make([]models.ExerciseRef, 0, len(records))
	for _, record := range records {
		refs = append(refs, models.ExerciseRef{
			ID:        record.GroupName + "/" + record.Name,
			Name:      record.Name,
			GroupName: record.GroupName,
		})
	}
	return refs, nil
}

func (s *GormStore) DeleteExercise(course, group, name string) error {
	group = ScrubGroupName(group)
	res := s.db.Where("course = ? AND group_name = ? AND name = ?", course, group, name).
		Delete(&models.ExerciseRecord{})
	if res.Error != nil {
		return fmt.Errorf("deleting exercise: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteGroup(course, group string) error {
	group = ScrubGroupName(group)
	if group == "" {
		return ErrGroupNotFound
	}
	res := s.db.Where("course = ? AND group_name = ?", course, group).
		Delete(&models.ExerciseRecord{})
	if res.Error != nil {
		return fmt.Errorf("deleting group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrGroupNotFound
	}
	return nil
}
