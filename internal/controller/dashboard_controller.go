package controller

import (
	"commercial-hub-be/internal/pkg/serverutils"
	"commercial-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router)
	Summary(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
}

type dashboardController struct {
	dashboardService service.IDashboardService
}

func NewDashboardController(dashboardService service.IDashboardService) IDashboardController {
	return &dashboardController{
		dashboardService: dashboardService,
	}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dashboard")
	h.Use(serverutils.JwtMiddleware)
	h.Get("summary", c.Summary)
	h.Post("refresh", c.Refresh)
}

func (c *dashboardController) Summary(ctx *fiber.Ctx) error {
	res, err := c.dashboardService.Summary(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success dashboard summary", res))
}

// Refresh forces a refetch of both collections, for the manual reload button.
func (c *dashboardController) Refresh(ctx *fiber.Ctx) error {
	if err := c.dashboardService.Refresh(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Collections refreshed", nil))
}
