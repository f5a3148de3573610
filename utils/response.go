package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sigmat-api/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// StatusOf maps an error code onto the HTTP status returned to clients.
func StatusOf(code apperrors.Code) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeInsufficientResource:
		return http.StatusPaymentRequired
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

// SendAppError writes err with the status of its code. Internal causes are attached
// to the gin context for the request logger and never reach the client.
func SendAppError(c *gin.Context, err error) {
	status := StatusOf(apperrors.CodeOf(err))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	SendError(c, status, apperrors.MessageOf(err))
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}
