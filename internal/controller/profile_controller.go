package controller

import (
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/pkg/serverutils"
	"commercial-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	UpdateMood(ctx *fiber.Ctx) error
}

type profileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) IProfileController {
	return &profileController{
		profileService: profileService,
	}
}

func (c *profileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/profiles")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Put("mood", c.UpdateMood)
}

// List returns every team member's profile for the mood board.
func (c *profileController) List(ctx *fiber.Ctx) error {
	res, err := c.profileService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list profiles", res))
}

func (c *profileController) UpdateMood(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateMoodRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.profileService.UpdateMood(ctx.Context(), identity, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Mood updated", res))
}
