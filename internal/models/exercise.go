package models

import "time"

// ExerciseRecord is the postgres row for one stored exercise definition. The
// processed payload (including translated chord data) is kept as a JSON blob;
// course, group and name form the lookup path.
type ExerciseRecord struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Course     string    `gorm:"uniqueIndex:idx_exercise_path" json:"course"`
	GroupName  string    `gorm:"uniqueIndex:idx_exercise_path;not null" json:"group_name"`
	Name       string    `gorm:"uniqueIndex:idx_exercise_path;not null" json:"name"`
	Definition []byte    `gorm:"type:jsonb" json:"-"`
}

// GroupOverview summarizes one exercise group for listings.
type GroupOverview struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// ExerciseRef identifies one exercise within a group listing.
type ExerciseRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"group_name"`
}
