package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/mloptapang/primero/internal/model"
)

// Headers set by the authentication layer in front of this service.
const (
	HeaderUserName   = "X-User-Name"
	HeaderUserScope  = "X-User-Scope"
	HeaderUserGroups = "X-User-Groups"
	HeaderUserAgency = "X-User-Agency"
)

// userFromHeaders reads the requesting user descriptor. The scope header is
// mandatory; scope specific requirements are checked when the query is built.
func userFromHeaders(c *fiber.Ctx) (*model.User, error) {
	scope := utils.Trim(c.Get(HeaderUserScope), ' ')
	if scope == "" {
		return nil, fiber.NewError(fiber.StatusForbidden, "missing "+HeaderUserScope+" header")
	}

	return &model.User{
		UserName: utils.Trim(c.Get(HeaderUserName), ' '),
		Scope:    model.Scope(strings.ToLower(scope)),
		GroupIDs: splitList(c.Get(HeaderUserGroups)),
		AgencyID: utils.Trim(c.Get(HeaderUserAgency), ' '),
	}, nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
