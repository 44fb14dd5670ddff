package serverutils

import (
	"errors"

	"commercial-hub-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware recovers panics and maps returned errors onto the
// response envelope. Domain error types carry their own status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(500, "Internal server error"))
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		var authErr *entity.AuthRequestError
		var saveErr *entity.SaveError
		var uploadErr *entity.UploadError
		var fetchErr *entity.RemoteFetchError
		switch {
		case errors.As(err, &authErr):
			status = fiber.StatusUnauthorized
		case errors.As(err, &saveErr), errors.As(err, &uploadErr):
			status = fiber.StatusUnprocessableEntity
		case errors.As(err, &fetchErr):
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
	}
}
