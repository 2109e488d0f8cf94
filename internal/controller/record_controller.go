package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/service"
)

type RecordController interface {
	CreateRecord(c *fiber.Ctx) error
}

type recordController struct {
	recordService service.RecordService
}

// NewRecordController builds a RecordController.
func NewRecordController(svc service.RecordService) RecordController {
	return &recordController{recordService: svc}
}

// CreateRecord accepts a single index document.
func (h *recordController) CreateRecord(c *fiber.Ctx) error {
	var req model.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	record, err := h.recordService.BuildRecord(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.recordService.ProcessRecord(c.UserContext(), record)
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(result)
}
