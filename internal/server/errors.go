package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	creditsdomain "github.com/JasonHunterX/Visiora/internal/credits/domain"
	generationdomain "github.com/JasonHunterX/Visiora/internal/generation/domain"
	historydomain "github.com/JasonHunterX/Visiora/internal/history/domain"
	identitydomain "github.com/JasonHunterX/Visiora/internal/identity/domain"
	"github.com/JasonHunterX/Visiora/pkg/restclient"
)

// envelope is the response shape every endpoint returns, success or
// failure, so a client can branch on one field.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func respond(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, envelope{
			Success: false,
			Message: message,
			Code:    status,
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var failed *generationdomain.TaskFailedError
	if errors.As(err, &failed) {
		return http.StatusBadGateway, failed.Error()
	}

	var business *restclient.BusinessError
	if errors.As(err, &business) {
		status := business.Code
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		return status, business.Message
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, identitydomain.ErrInvalidUser),
		errors.Is(err, creditsdomain.ErrInvalidAmount),
		errors.Is(err, generationdomain.ErrEmptyPrompt),
		errors.Is(err, historydomain.ErrEmptyKeyword),
		errors.Is(err, historydomain.ErrNoRecordIDs):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, creditsdomain.ErrNotLoggedIn):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, creditsdomain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, err.Error()
	case errors.Is(err, creditsdomain.ErrAccountNotFound),
		errors.Is(err, historydomain.ErrRecordNotFound),
		errors.Is(err, generationdomain.ErrTaskNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, generationdomain.ErrStatusQueryTimeout),
		errors.Is(err, generationdomain.ErrTaskTimeout):
		return http.StatusGatewayTimeout, err.Error()
	case restclient.IsTransport(err):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
