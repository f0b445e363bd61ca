// Package httperr maps storage and form-binding errors onto HTTP responses.
//
// Three error kinds matter to this application: a missing entity (404),
// a missing or malformed form field (400), and a uniqueness violation
// such as a duplicate tag name (409). Everything else is a 500.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Status returns the HTTP status code for err.
func Status(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Render writes the error page for err with the mapped status.
func Render(c *gin.Context, err error) {
	status := Status(err)
	msg := http.StatusText(status)
	switch status {
	case http.StatusBadRequest:
		msg = "Missing or malformed form field"
	case http.StatusConflict:
		msg = "That value is already in use"
	case http.StatusNotFound:
		msg = "Not found"
	}
	c.HTML(status, "error.html", gin.H{"Status": status, "Error": msg})
}
