package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mloptapang/primero/internal/controller"
)

// Controllers groups the handlers mounted by Register.
type Controllers struct {
	Records    controller.RecordController
	Reports    controller.ReportController
	Indicators controller.IndicatorController
}

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, ctrl Controllers) {
	api := app.Group("/api/v2")

	api.Post("/records", ctrl.Records.CreateRecord)

	api.Post("/reports", ctrl.Reports.CreateReport)
	api.Get("/reports", ctrl.Reports.ListReports)
	api.Get("/reports/:id", ctrl.Reports.GetReport)
	api.Patch("/reports/:id", ctrl.Reports.UpdateReport)
	api.Get("/reports/:id/data", ctrl.Reports.GetReportData)

	api.Get("/indicators", ctrl.Indicators.ListIndicators)
	api.Get("/indicators/:name", ctrl.Indicators.GetIndicator)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
