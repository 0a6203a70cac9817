package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response wrapper of the API.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Success: false, Message: message, Data: map[string]interface{}{}})
}

// respondInternal passes the underlying message through in data, so the
// caller can surface it in a notification.
func respondInternal(c echo.Context, message string, err error) error {
	return c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: message, Data: err.Error()})
}
