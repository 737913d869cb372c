package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/gin-gonic/gin"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorTranscriptionFailed):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrorFeatureDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code and a JSON error body. Internal
// errors are recorded on the gin context and answered with a generic message.
func writeError(c *gin.Context, err error) {
	code := statusOf(err)

	msg := err.Error()
	switch code {
	case http.StatusInternalServerError:
		_ = c.Error(err)
		msg = common.ErrorInternal.Error()
	case http.StatusUnauthorized:
		msg = common.ErrorUnauthorized.Error()
	case http.StatusNotFound:
		msg = common.ErrorNotFound.Error()
	case http.StatusForbidden:
		msg = common.ErrorForbidden.Error()
	}

	c.JSON(code, gin.H{"error": msg})
}
