package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps domain failures onto status codes. Anything unclassified
// is logged and reported as a 500 without leaking its message.
func toHTTPError(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Reason)
	case errors.Is(err, apperrors.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrInvalidRelation), errors.Is(err, apperrors.ErrEmptyBasket):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	logger.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
