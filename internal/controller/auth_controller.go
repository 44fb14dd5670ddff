package controller

import (
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/serverutils"
	"commercial-hub-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	RequestMagicLink(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	LegacyLogin(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type authController struct {
	authService    service.IAuthService
	profileService service.IProfileService
}

func NewAuthController(authService service.IAuthService, profileService service.IProfileService) IAuthController {
	return &authController{
		authService:    authService,
		profileService: profileService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("magic-link", c.RequestMagicLink)
	h.Get("verify", c.Verify)
	h.Post("legacy-login", c.LegacyLogin)
	h.Post("logout", serverutils.JwtMiddleware, c.Logout)
	h.Get("session", serverutils.JwtMiddleware, c.Session)
}

func (c *authController) RequestMagicLink(ctx *fiber.Ctx) error {
	var req dto.MagicLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.RequestMagicLink(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Sign-in link sent", res))
}

func (c *authController) Verify(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "token is required"))
	}

	res, err := c.authService.VerifyMagicLink(ctx.Context(), token)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Signed in", res))
}

func (c *authController) LegacyLogin(ctx *fiber.Ctx) error {
	var req dto.LegacyLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.LegacyLogin(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Signed in", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	sessionIdStr, _ := ctx.Locals("session_id").(string)
	sessionId, err := uuid.Parse(sessionIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	if err := c.authService.Logout(ctx.Context(), sessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Signed out", nil))
}

// Session resolves the caller's identity and profile, creating the profile
// on first sign-in.
func (c *authController) Session(ctx *fiber.Ctx) error {
	identity, err := identityFromCtx(ctx)
	if err != nil {
		return err
	}

	profile, err := c.profileService.GetOrCreate(ctx.Context(), identity)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session resolved", dto.SessionResponse{
		User: dto.SessionIdentity{
			Id:    identity.Id,
			Email: identity.Email,
		},
		Profile: profile,
	}))
}

// identityFromCtx rebuilds the caller's identity from the JWT claims the
// middleware stashed in Locals.
func identityFromCtx(ctx *fiber.Ctx) (entity.Identity, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return entity.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}
	email, _ := ctx.Locals("email").(string)
	return entity.Identity{Id: userId, Email: email}, nil
}
