package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
	"github.com/mloptapang/primero/internal/service"
)

const (
	fromSuffix = "_from"
	toSuffix   = "_to"
)

type IndicatorController interface {
	ListIndicators(c *fiber.Ctx) error
	GetIndicator(c *fiber.Ctx) error
}

type indicatorController struct {
	indicatorService service.IndicatorService
}

// NewIndicatorController builds an IndicatorController.
func NewIndicatorController(svc service.IndicatorService) IndicatorController {
	return &indicatorController{indicatorService: svc}
}

func (h *indicatorController) ListIndicators(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.indicatorService.Names()})
}

// GetIndicator evaluates one indicator within the requesting user's scope.
func (h *indicatorController) GetIndicator(c *fiber.Ctx) error {
	user, err := userFromHeaders(c)
	if err != nil {
		return err
	}

	filters, err := buildIndicatorFilters(c)
	if err != nil {
		return toHTTPError(c, err)
	}

	name := utils.CopyString(c.Params("name"))
	result, err := h.indicatorService.Data(c.UserContext(), name, user, filters)
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(result)
}

// buildIndicatorFilters turns query parameters into filters:
// grouped_by is the grouping directive, <field>_from and <field>_to bound a
// date field, anything else is a comma separated value list.
func buildIndicatorFilters(c *fiber.Ctx) (map[string]searchfilter.Filter, error) {
	filters := map[string]searchfilter.Filter{}
	bounds := map[string][2]string{}

	for key, raw := range c.Queries() {
		key = utils.CopyString(key)
		raw = utils.Trim(raw, ' ')
		if raw == "" {
			continue
		}

		switch {
		case key == reporting.GroupedByField:
			filters[key] = searchfilter.NewValue(key, utils.CopyString(raw))
		case strings.HasSuffix(key, fromSuffix):
			field := strings.TrimSuffix(key, fromSuffix)
			b := bounds[field]
			b[0] = utils.CopyString(raw)
			bounds[field] = b
		case strings.HasSuffix(key, toSuffix):
			field := strings.TrimSuffix(key, toSuffix)
			b := bounds[field]
			b[1] = utils.CopyString(raw)
			bounds[field] = b
		default:
			filters[key] = searchfilter.NewValue(key, splitList(raw))
		}
	}

	for field, b := range bounds {
		dateRange, err := searchfilter.ParseDateRange(field, b[0], b[1])
		if err != nil {
			return nil, &reporting.ConfigurationError{Field: field, Message: "dates must be YYYY-MM-DD"}
		}
		filters[field] = dateRange
	}

	return filters, nil
}
