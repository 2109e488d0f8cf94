package controller

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/indicator"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/service"
)

// toHTTPError maps service and reporting errors to fiber errors.
func toHTTPError(c *fiber.Ctx, err error) error {
	var (
		fiberErr   *fiber.Error
		valErr     *service.ValidationError
		cfgErr     *reporting.ConfigurationError
		scopeErr   *reporting.ScopeResolutionError
		backendErr *reporting.BackendQueryError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr
	case errors.As(err, &valErr), errors.As(err, &cfgErr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &scopeErr):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrReportNotFound), errors.Is(err, indicator.ErrUnknown):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &backendErr):
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("record_type", backendErr.RecordType).Msg("search backend query failed")
		return fiber.NewError(fiber.StatusBadGateway, "search backend unavailable")
	default:
		zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("request failed")
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
