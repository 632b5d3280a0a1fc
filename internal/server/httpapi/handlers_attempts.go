package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/egetrack/egetrack/internal/server/models"
	"github.com/egetrack/egetrack/internal/server/services"
)

const attemptDateLayout = "2006-01-02"

// attemptJSON mirrors the frontend contract: points and maxPoints are
// omitted entirely when null, not emitted as null.
type attemptJSON struct {
	TaskNumber int    `json:"taskNumber"`
	Status     string `json:"status"`
	Date       string `json:"date"`
	Points     *int   `json:"points,omitempty"`
	MaxPoints  *int   `json:"maxPoints,omitempty"`
}

func toAttemptJSON(attempt *models.Attempt) attemptJSON {
	return attemptJSON{
		TaskNumber: attempt.TaskNumber,
		Status:     attempt.Status,
		Date:       attempt.AttemptDate.Format(attemptDateLayout),
		Points:     attempt.Points,
		MaxPoints:  attempt.MaxPoints,
	}
}

func (s *Server) handleListAttempts(c *fiber.Ctx) error {
	subjectID := c.Query("subjectId")
	if subjectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject id required")
	}

	attempts, err := s.attempts.List(c.UserContext(), callerID(c), subjectID)
	if err != nil {
		return err
	}

	result := make([]attemptJSON, 0, len(attempts))
	for _, attempt := range attempts {
		result = append(result, toAttemptJSON(attempt))
	}

	return c.JSON(result)
}

type recordAttemptRequest struct {
	SubjectID  string `json:"subjectId"`
	TaskNumber *int   `json:"taskNumber"`
	Status     string `json:"status"`
	Points     *int   `json:"points"`
	MaxPoints  *int   `json:"maxPoints"`
}

func (s *Server) handleRecordAttempt(c *fiber.Ctx) error {
	var req recordAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.SubjectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject id required")
	}

	attempt, err := s.attempts.Record(c.UserContext(), callerID(c), req.SubjectID, services.RecordAttemptParams{
		TaskNumber: req.TaskNumber,
		Status:     req.Status,
		Points:     req.Points,
		MaxPoints:  req.MaxPoints,
	})
	if err != nil {
		return err
	}

	return c.JSON(toAttemptJSON(attempt))
}
