package ui

import (
	"log"
	"net/http"

	"gosheet/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusForCode maps application error codes to HTTP statuses
func statusForCode(code string) int {
	switch code {
	case errors.CodeFormatError, errors.CodeInvalidReference, errors.CodeItemNotFound,
		errors.CodeInvalidRule, errors.CodeUnsupportedFormat, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeConflict:
		return http.StatusConflict
	case errors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeExternalService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorBody is the JSON shape of every failed API response
func errorBody(err error) (int, gin.H) {
	code := errors.GetCode(err)
	if !errors.IsAppError(err) {
		code = errors.CodeInternalError
	}
	return statusForCode(code), gin.H{"error": errors.Message(err), "code": code}
}

func respondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, body)
}
