package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/parkcast/parkcast/internal/forecast"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/parks", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"parks": service.Locations(),
		})
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		req, err := parseTableQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := service.HourlyTable(c.UserContext(), req.day, req.filter())
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"date":         req.Date,
			"observations": res.Observations,
			"skipped":      res.Skipped,
		})
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		req, err := parseTableQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summaries, err := service.DailySummaries(c.UserContext(), req.day, req.filter())
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"date":      req.Date,
			"summaries": summaries,
		})
	})

	v1.Get("/forecast/current", func(c *fiber.Ctx) error {
		park := c.Query("park")
		if park == "" {
			return fiber.NewError(fiber.StatusBadRequest, "park query parameter is required")
		}

		current, err := service.Current(c.UserContext(), park)
		if err != nil {
			return mapServiceError(err)
		}

		return c.JSON(fiber.Map{
			"park":    park,
			"current": current,
		})
	})
}

// tableQuery holds query parameters shared by the hourly and daily
// endpoints.
type tableQuery struct {
	Date string `validate:"required"`
	Park string

	day time.Time
}

func (q tableQuery) filter() []string {
	if q.Park == "" {
		return nil
	}
	return []string{q.Park}
}

func parseTableQuery(c *fiber.Ctx) (tableQuery, error) {
	q := tableQuery{
		Date: c.Query("date"),
		Park: c.Query("park"),
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	day, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return q, errors.New("invalid date; use YYYY-MM-DD")
	}
	q.day = day.UTC()

	return q, nil
}

// mapServiceError translates the forecast error taxonomy into HTTP
// status codes.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, forecast.ErrInvalidInput):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, forecast.ErrTransport), errors.Is(err, forecast.ErrMalformedResponse):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast data")
	}
}
