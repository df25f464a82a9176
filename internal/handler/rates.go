package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/rates"
)

// Rates handles GET /v1/rates (admin-gated). It exposes the hourly split
// table so reviewers can see what an approval without explicit figures will
// stamp.
func Rates(c echo.Context) error {
	out := make([]echo.Map, 0, len(rates.Teams()))
	for _, team := range rates.Teams() {
		split, err := rates.PerHour(team)
		if err != nil {
			continue
		}
		out = append(out, echo.Map{"team": team, "per_hour": split})
	}
	return c.JSON(http.StatusOK, out)
}
