package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/pkg/serverutils"
	"ai-investigator-be/internal/service"
)

type IInterviewController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Message(ctx *fiber.Ctx) error
	Skip(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type interviewController struct {
	interviewService service.IInterviewService
}

func NewInterviewController(interviewService service.IInterviewService) IInterviewController {
	return &interviewController{
		interviewService: interviewService,
	}
}

func (c *interviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/interview")
	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Post("message", c.Message)
	h.Post("skip", c.Skip)
	h.Put("edit", c.Edit)
	h.Get("history/:session_id", c.History)
	h.Get("status/:session_id", c.Status)
}

func (c *interviewController) Start(ctx *fiber.Ctx) error {
	// Provider and model are optional; an empty body starts with defaults.
	var req dto.StartInvestigationRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.interviewService.StartInvestigation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start investigation", res))
}

func (c *interviewController) Message(ctx *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.interviewService.ProcessAnswer(ctx.Context(), &req)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process answer", res))
}

func (c *interviewController) Skip(ctx *fiber.Ctx) error {
	var req dto.SkipQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.interviewService.SkipQuestion(ctx.Context(), &req)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success skip question", res))
}

func (c *interviewController) Edit(ctx *fiber.Ctx) error {
	var req dto.EditAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.interviewService.EditAnswer(ctx.Context(), &req)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit answer", res))
}

func (c *interviewController) History(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.interviewService.GetHistory(ctx.Context(), sessionId)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *interviewController) Status(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.interviewService.GetStatus(ctx.Context(), sessionId)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}

// interviewError maps the service error taxonomy onto transport statuses.
// Anything unrecognized falls through to the error handler middleware.
func interviewError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrMessageNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(fiber.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrEmptyAnswer):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
	}
	return err
}
