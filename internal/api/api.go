package api

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"coffee-shop/internal/apperror"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// respondError maps a service error onto its HTTP status. Unexpected errors
// are logged and answered with a generic message.
func respondError(c echo.Context, err error) error {
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindConflict:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperror.KindNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	logger.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("Unexpected error")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.NewValidation("invalid %s", name)
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("invalid %s", name)
	}
	return uint(id), nil
}

func queryBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}

// Health answers the liveness probe.
func Health(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"service": service,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}
