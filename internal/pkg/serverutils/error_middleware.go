package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-tutor-be/internal/apperrors"
)

// ErrorHandlerMiddleware converts typed errors bubbling out of controllers
// into consistent JSON bodies. Unknown errors become opaque 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return ctx.Status(statusForKind(appErr.Kind)).JSON(ErrorBody{
				Success: false,
				Message: appErr.Message,
				Kind:    string(appErr.Kind),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorBody{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
			Success: false,
			Message: "internal server error",
		})
	}
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound, apperrors.KindPersonaNotFound, apperrors.KindNoSolution:
		return fiber.StatusNotFound
	case apperrors.KindUpstreamTimeout:
		return fiber.StatusGatewayTimeout
	case apperrors.KindUpstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
