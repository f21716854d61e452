// Package embedded ships the sample exercises bundled with the binary. A
// fresh file-backed deployment is seeded from these so the API has something
// to serve before any authoring happens.
package embedded

import (
	_ "embed"
)

//go:embed data/exercises/major_triads.json
var MajorTriadsJSON []byte

//go:embed data/exercises/dominant_sevenths.json
var DominantSeventhsJSON []byte

// SampleExercise pairs a seed definition with its target group.
type SampleExercise struct {
	GroupName  string
	Definition []byte
}

// SampleExercises returns the bundled seed exercises in seeding order.
func SampleExercises() []SampleExercise {
	return []SampleExercise{
		{GroupName: "major-triads", Definition: MajorTriadsJSON},
		{GroupName: "dominant-sevenths", Definition: DominantSeventhsJSON},
	}
}
