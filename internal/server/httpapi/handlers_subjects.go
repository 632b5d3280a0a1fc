package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/egetrack/egetrack/internal/server/models"
	"github.com/egetrack/egetrack/internal/server/services"
)

type rangeJSON struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type subjectJSON struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Part1Range     rangeJSON      `json:"part1Range"`
	Part2Range     rangeJSON      `json:"part2Range"`
	Part2MaxPoints map[string]int `json:"part2MaxPoints"`
	Icon           string         `json:"icon"`
	Color          string         `json:"color"`
	Archived       bool           `json:"archived"`
}

func toSubjectJSON(subject *models.Subject) subjectJSON {
	return subjectJSON{
		ID:             subject.ID,
		Name:           subject.Name,
		Part1Range:     rangeJSON{From: subject.Part1From, To: subject.Part1To},
		Part2Range:     rangeJSON{From: subject.Part2From, To: subject.Part2To},
		Part2MaxPoints: subject.Part2MaxPoints,
		Icon:           subject.Icon,
		Color:          subject.Color,
		Archived:       subject.Archived,
	}
}

func (s *Server) handleListSubjects(c *fiber.Ctx) error {
	subjects, err := s.subjects.List(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}

	result := make([]subjectJSON, 0, len(subjects))
	for _, subject := range subjects {
		result = append(result, toSubjectJSON(subject))
	}

	return c.JSON(result)
}

type createSubjectRequest struct {
	Name           string         `json:"name"`
	Part1From      *int           `json:"part1From"`
	Part1To        *int           `json:"part1To"`
	Part2From      *int           `json:"part2From"`
	Part2To        *int           `json:"part2To"`
	Part2MaxPoints map[string]int `json:"part2MaxPoints"`
	Icon           string         `json:"icon"`
	Color          string         `json:"color"`
}

func (s *Server) handleCreateSubject(c *fiber.Ctx) error {
	var req createSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	subject, err := s.subjects.Create(c.UserContext(), callerID(c), services.CreateSubjectParams{
		Name:           req.Name,
		Part1From:      req.Part1From,
		Part1To:        req.Part1To,
		Part2From:      req.Part2From,
		Part2To:        req.Part2To,
		Part2MaxPoints: req.Part2MaxPoints,
		Icon:           req.Icon,
		Color:          req.Color,
	})
	if err != nil {
		return err
	}

	return c.JSON(toSubjectJSON(subject))
}

type archiveSubjectRequest struct {
	ID       string `json:"id"`
	Archived *bool  `json:"archived"`
}

func (s *Server) handleArchiveSubject(c *fiber.Ctx) error {
	var req archiveSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.ID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject id required")
	}
	if req.Archived == nil {
		return fiber.NewError(fiber.StatusBadRequest, "archived flag required")
	}

	subject, err := s.subjects.SetArchived(c.UserContext(), callerID(c), req.ID, *req.Archived)
	if err != nil {
		return err
	}

	return c.JSON(toSubjectJSON(subject))
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleDeleteSubject(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "subject id required")
	}

	if err := s.subjects.Delete(c.UserContext(), callerID(c), id); err != nil {
		return err
	}

	return c.JSON(successResponse{Success: true})
}
