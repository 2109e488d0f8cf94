package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/mloptapang/primero/internal/report"
	"github.com/mloptapang/primero/internal/service"
)

type ReportController interface {
	CreateReport(c *fiber.Ctx) error
	ListReports(c *fiber.Ctx) error
	GetReport(c *fiber.Ctx) error
	UpdateReport(c *fiber.Ctx) error
	GetReportData(c *fiber.Ctx) error
}

type reportController struct {
	reportService service.ReportService
}

// NewReportController builds a ReportController.
func NewReportController(svc service.ReportService) ReportController {
	return &reportController{reportService: svc}
}

func (h *reportController) CreateReport(c *fiber.Ctx) error {
	var r report.Report
	if err := c.BodyParser(&r); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	created, err := h.reportService.Create(c.UserContext(), &r)
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *reportController) ListReports(c *fiber.Ctx) error {
	reports, err := h.reportService.List(c.UserContext())
	if err != nil {
		return toHTTPError(c, err)
	}
	if reports == nil {
		reports = []*report.Report{}
	}

	return c.JSON(fiber.Map{"data": reports})
}

func (h *reportController) GetReport(c *fiber.Ctx) error {
	r, err := h.reportService.Get(c.UserContext(), reportID(c))
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(r)
}

// UpdateReport applies a partial update; absent attributes are unchanged.
func (h *reportController) UpdateReport(c *fiber.Ctx) error {
	var props report.Properties
	if err := c.BodyParser(&props); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	updated, err := h.reportService.Update(c.UserContext(), reportID(c), props)
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(updated)
}

// GetReportData builds the report within the requesting user's scope.
func (h *reportController) GetReportData(c *fiber.Ctx) error {
	user, err := userFromHeaders(c)
	if err != nil {
		return err
	}

	data, err := h.reportService.Data(c.UserContext(), reportID(c), user)
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(data)
}

func reportID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}
