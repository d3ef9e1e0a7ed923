package helper

import (
	"errors"
	"net/http"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{Message: message})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindInvalidID:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SendError writes the client-facing message. Internal failures also carry
// the underlying error text.
func SendError(c *gin.Context, err error) {
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		SendInternalError(c, "Internal server error.", err)
		return
	}

	var domainErr *domain.Error

	message := err.Error()

	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	c.JSON(status, response.ErrorResponse{Message: message})
}

func SendInternalError(c *gin.Context, message string, err error) {
	errorResponse := response.ErrorResponse{Message: message}

	if err != nil {
		errorResponse.Error = err.Error()
	}

	c.JSON(http.StatusInternalServerError, errorResponse)
}
