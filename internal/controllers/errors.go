package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spendlog/backend/internal/httputil"
	"github.com/spendlog/backend/internal/models"
)

var errInvalidSort = errors.New("invalid sort parameter. Use date_desc or date_asc")

// status returns the appropriate status code for an error returned by the
// models package
func status(err error) int {
	if errors.Is(err, models.ErrExpenseNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrAmountNotPositive) ||
		errors.Is(err, models.ErrFieldsRequired) ||
		errors.Is(err, models.ErrDateInvalid) ||
		errors.Is(err, errInvalidSort) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// errorResponse writes the error with the status it maps to. Errors that are
// not part of the closed set are unexpected, they are logged and replaced
// with a generic message so that internals do not leak to clients.
func errorResponse(c *gin.Context, err error) {
	s := status(err)

	if s == http.StatusInternalServerError && !errors.Is(err, models.ErrGeneral) {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		err = models.ErrGeneral
	}

	httputil.NewError(c, s, err)
}
