package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harmonylab/lab-api/internal/logger"
	"github.com/harmonylab/lab-api/internal/metrics"
	"github.com/harmonylab/lab-api/internal/notation"
)

// Global metrics instance for handler-level spans
var sentryMetrics = metrics.NewSentryMetrics()

type NotationHandler struct {
	cloudwatch *metrics.Client
}

func NewNotationHandler(cw *metrics.Client) *NotationHandler {
	return &NotationHandler{cloudwatch: cw}
}

// Parse translates chord notation to MIDI pitch numbers
// POST /api/v1/notation/parse
// Body: {"notation": "<c e g>1 <f a c>1"}
//
// Malformed notation is a domain outcome, not an HTTP error: the response is
// 200 with is_valid=false and the author-readable errors.
func (h *NotationHandler) Parse(c *gin.Context) {
	var req struct {
		Notation string `json:"notation" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := notation.Parse(req.Notation)

	if h.cloudwatch != nil {
		h.cloudwatch.RecordNotationParse(res.IsValid, len(res.Chords), len(res.Errors))
	}
	sentryMetrics.RecordNotationParse(c.Request.Context(), res.IsValid, len(res.Chords), len(res.Errors))

	if !res.IsValid {
		logger.Warn("Notation parse failed", logger.Fields{
			"request_id":  c.GetString("request_id"),
			"error_count": len(res.Errors),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"is_valid": res.IsValid,
		"chords":   res.Chords,
		"errors":   res.Errors,
	})
}
