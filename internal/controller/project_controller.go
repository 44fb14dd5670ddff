package controller

import (
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/pkg/serverutils"
	"commercial-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Upsert(ctx *fiber.Ctx) error
	AttachPDF(ctx *fiber.Ctx) error
}

type projectController struct {
	projectService service.IProjectService
}

func NewProjectController(projectService service.IProjectService) IProjectController {
	return &projectController{
		projectService: projectService,
	}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/projects")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Upsert)
	h.Post(":id/pdf", c.AttachPDF)
}

// List returns grid rows narrowed by ?search= and ?agent=.
func (c *projectController) List(ctx *fiber.Ctx) error {
	search := ctx.Query("search")
	agent := ctx.Query("agent", "all")

	res, err := c.projectService.List(ctx.Context(), search, agent)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list projects", res))
}

func (c *projectController) Upsert(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.UpsertProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.projectService.Upsert(ctx.Context(), identity, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save project", res))
}

func (c *projectController) AttachPDF(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	idParam := ctx.Params("id")
	projectId, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid project ID"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "PDF file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	defer file.Close()

	res, err := c.projectService.AttachPDF(ctx.Context(), identity, projectId, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("PDF uploaded successfully", res))
}
