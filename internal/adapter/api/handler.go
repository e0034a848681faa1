package api

import (
	"bytes"
	"errors"

	"travelbuddy-relay/internal/domain/entity"
	"travelbuddy-relay/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GenerateHandler struct {
	planner *usecase.Planner
	logger  *zap.Logger
}

func NewGenerateHandler(planner *usecase.Planner, logger *zap.Logger) *GenerateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerateHandler{planner: planner, logger: logger}
}

func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	var req entity.GenerationRequest
	// Empty and null bodies behave like {}.
	if body := c.Body(); len(bytes.TrimSpace(body)) > 0 {
		if err := c.App().Config().JSONDecoder(body, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(entity.ErrorResponse{
				Success: false,
				Error:   entity.ErrInvalidRequest.Error(),
			})
		}
	}

	resp, err := h.planner.Execute(c.UserContext(), req)
	if err != nil {
		h.logger.Error("generation failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		if errors.Is(err, entity.ErrProviderUnreachable) {
			return c.Status(fiber.StatusBadGateway).JSON(entity.ErrorResponse{
				Success: false,
				Error:   entity.ErrProviderUnreachable.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(entity.ErrorResponse{
			Success: false,
			Error:   "internal gateway error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
