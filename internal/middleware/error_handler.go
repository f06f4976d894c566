package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/quantumpay/gateway-optimizer/internal/dto"
	"github.com/quantumpay/gateway-optimizer/internal/forecaster"
	"github.com/quantumpay/gateway-optimizer/internal/optimizer"
)

// MapError translates domain and database errors into HTTP responses.
// Input errors are the caller's fault and never retried; solver internal
// errors are surfaced loudly.
func MapError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, optimizer.ErrInvalidBatch),
		errors.Is(err, optimizer.ErrNoEligibleGateway),
		errors.Is(err, forecaster.ErrInvalidHorizon):
		return http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, forecaster.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, optimizer.ErrSolverInternal):
		log.Error().Err(err).Msg("solver invariant broken")
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "solver internal error"}
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict, dto.ErrorResponse{
				Error:   "resource already exists",
				Details: pgErr.Detail,
			}
		case "23503": // foreign_key_violation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "referenced resource does not exist",
				Details: pgErr.Detail,
			}
		case "23514": // check_violation
			return http.StatusBadRequest, dto.ErrorResponse{
				Error:   "constraint violation",
				Details: pgErr.Detail,
			}
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
