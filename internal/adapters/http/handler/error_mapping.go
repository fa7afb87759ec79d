package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// toHTTPError はドメインエラーを HTTP レスポンスへ変換します。
// NotFound は固定書式のプレーンテキストを返します。
func (h *EmployeeHTTPHandler) toHTTPError(c *fiber.Ctx, err error) error {
	var notFound *employee.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).SendString(notFound.Error())
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidPayload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, employee.ErrDuplicateID):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		h.logger.Error("employee request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalErrorMessage})
	}
}

// ErrorHandler はハンドラー外で発生したエラーを JSON で返す fiber.ErrorHandler です。
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := internalErrorMessage

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
