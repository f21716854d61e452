package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmonylab/lab-api/internal/exercise"
	"github.com/harmonylab/lab-api/internal/logger"
	"github.com/harmonylab/lab-api/internal/metrics"
	"github.com/harmonylab/lab-api/internal/midifile"
	"github.com/harmonylab/lab-api/internal/models"
	"github.com/harmonylab/lab-api/internal/store"
)

// ExerciseHandler serves authored exercise definitions. The course is an
// optional query parameter on every route; without it exercises live in the
// shared "all" namespace.
type ExerciseHandler struct {
	store      store.Store
	cloudwatch *metrics.Client
}

func NewExerciseHandler(st store.Store, cw *metrics.Client) *ExerciseHandler {
	return &ExerciseHandler{store: st, cloudwatch: cw}
}

// Create processes and persists an exercise definition
// POST /api/v1/exercises?course=theory-101
// Body: the definition object; "group_name" picks the group and is not stored.
func (h *ExerciseHandler) Create(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, _ := payload["group_name"].(string)
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_name is required"})
		return
	}
	delete(payload, "group_name")

	def := exercise.New(payload)
	if !def.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"is_valid": false,
			"errors":   def.Errors(),
			"original": payload,
		})
		return
	}

	course := c.Query("course")
	ex, err := h.store.CreateExercise(course, group, def)
	if err != nil {
		logger.Error("Failed to create exercise", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create exercise"})
		return
	}

	if h.cloudwatch != nil {
		h.cloudwatch.RecordExerciseCreated(course)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         ex.ID(),
		"name":       ex.Name,
		"group_name": ex.GroupName,
		"data":       def.Data(),
	})
}

// Get returns one exercise with next/previous navigation within its group
// GET /api/v1/exercises/:group/:name
func (h *ExerciseHandler) Get(c *gin.Context) {
	course := c.Query("course")
	group := c.Param("group")
	name := c.Param("name")

	ex, err := h.store.GetExercise(course, group, name)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to load exercise", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load exercise"})
		return
	}

	next, previous := h.neighbors(course, group, name)

	c.JSON(http.StatusOK, gin.H{
		"id":         ex.ID(),
		"name":       ex.Name,
		"group_name": ex.GroupName,
		"data":       ex.Definition.Data(),
		"next":       next,
		"previous":   previous,
	})
}

// neighbors locates the exercise in its group listing. Both values are nil at
// the ends of the group, or when the listing cannot be loaded.
func (h *ExerciseHandler) neighbors(course, group, name string) (next, previous *models.ExerciseRef) {
	refs, err := h.store.ListExercises(course, group)
	if err != nil {
		return nil, nil
	}
	for i := range refs {
		if refs[i].Name != name {
			continue
		}
		if i > 0 {
			previous = &refs[i-1]
		}
		if i < len(refs)-1 {
			next = &refs[i+1]
		}
		return next, previous
	}
	return nil, nil
}

// ListGroups returns every group in the course, sorted
// GET /api/v1/groups?course=theory-101
func (h *ExerciseHandler) ListGroups(c *gin.Context) {
	groups, err := h.store.ListGroups(c.Query("course"))
	if err != nil {
		logger.Error("Failed to list groups", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list groups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// ListExercises returns the group's exercises in listing order
// GET /api/v1/exercises/:group
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	group := c.Param("group")
	refs, err := h.store.ListExercises(c.Query("course"), group)
	if errors.Is(err, store.ErrGroupNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to list exercises", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list exercises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"group_name": group,
		"exercises":  refs,
	})
}

// Delete removes one exercise
// DELETE /api/v1/exercises/:group/:name
func (h *ExerciseHandler) Delete(c *gin.Context) {
	err := h.store.DeleteExercise(c.Query("course"), c.Param("group"), c.Param("name"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to delete exercise", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete exercise"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteGroup removes a group and everything in it
// DELETE /api/v1/groups/:group
func (h *ExerciseHandler) DeleteGroup(c *gin.Context) {
	err := h.store.DeleteGroup(c.Query("course"), c.Param("group"))
	if errors.Is(err, store.ErrGroupNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to delete group", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete group"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportMIDI renders the exercise's chords as a Standard MIDI File download
// GET /api/v1/exercises/:group/:name/midi
func (h *ExerciseHandler) ExportMIDI(c *gin.Context) {
	course := c.Query("course")
	group := c.Param("group")
	name := c.Param("name")

	ex, err := h.store.GetExercise(course, group, name)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "exercise not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to load exercise", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load exercise"})
		return
	}

	data, err := midifile.Render(ex.Definition.Chords())
	if err != nil {
		logger.Error("Failed to render MIDI", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render MIDI"})
		return
	}

	filename := fmt.Sprintf("%s-%s.mid", group, name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "audio/midi", data)
}
