package handler

import (
	"quizflare/internal/dto"
	"quizflare/internal/service"
	"quizflare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// DraftHandler applies editor steps to a draft held by the client. Drafts
// are not stored until the quiz is saved.
type DraftHandler struct {
	authoring service.AuthoringService
	validator *validation.Validator
}

func NewDraftHandler(authoring service.AuthoringService) *DraftHandler {
	return &DraftHandler{authoring: authoring, validator: validation.NewValidator()}
}

// ApplyOperation godoc
// @Summary Edit a draft
// @Description Adds, updates, removes or retypes one question of the draft
// @Tags authoring
// @Accept json
// @Produce json
// @Param request body dto.DraftOperationRequest true "Draft and operation"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /drafts/operations [post]
func (h *DraftHandler) ApplyOperation(c *fiber.Ctx) error {
	var req dto.DraftOperationRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	draft := req.Draft
	if err := h.authoring.ApplyOperation(&draft, req.ToOperation()); err != nil {
		return err
	}
	return c.JSON(dto.DraftResponse{Draft: draft})
}

// GenerateQuestions godoc
// @Summary Generate questions into a draft
// @Description Failures leave the draft unchanged and are reported in the notice
// @Tags authoring
// @Accept json
// @Produce json
// @Param request body dto.GenerateIntoDraftRequest true "Draft and source"
// @Success 200 {object} dto.GenerateIntoDraftResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /drafts/questions/generate [post]
func (h *DraftHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateIntoDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}
	if errs := h.validator.ValidateNumQuestions(req.NumQuestions); len(errs) > 0 {
		return errs
	}
	src, err := req.Source.ToSource()
	if err != nil {
		return err
	}

	draft := req.Draft
	outcome := h.authoring.GenerateIntoDraft(c.UserContext(), &draft, src, req.NumQuestions)
	return c.JSON(dto.GenerateIntoDraftResponse{
		Draft:     *outcome.Draft,
		Generated: outcome.Generated,
		Notice:    outcome.Notice,
	})
}
