package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-investigator-be/internal/dto"
	"ai-investigator-be/internal/pkg/serverutils"
	"ai-investigator-be/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	Load(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Transcript(ctx *fiber.Ctx) error
}

type sessionController struct {
	archiveService service.IArchiveService
}

func NewSessionController(archiveService service.IArchiveService) ISessionController {
	return &sessionController{
		archiveService: archiveService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Post("save", c.Save)
	h.Get("list", c.List)
	h.Get("load/:session_id", c.Load)
	h.Get(":session_id/transcript", c.Transcript)
	h.Delete(":session_id", c.Delete)
}

func (c *sessionController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.archiveService.Save(ctx.Context(), &req)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save session", res))
}

func (c *sessionController) Load(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.archiveService.Load(ctx.Context(), sessionId)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success load session", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.archiveService.List(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.archiveService.Delete(ctx.Context(), sessionId)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}

func (c *sessionController) Transcript(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("session_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.archiveService.Transcript(ctx.Context(), sessionId)
	if err != nil {
		return interviewError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export transcript", res))
}
