package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"unicode"

	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error payload shared by every endpoint. Clients read details[0].message
// first and fall back to message.
type ErrorResponse struct {
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func RespondError(c *gin.Context, status int, message string, details ...ErrorDetail) {
	if len(details) == 0 {
		details = []ErrorDetail{{Message: message}}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

// Translates request binding failures into a 400 envelope
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]ErrorDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			field := lowerFirst(fe.Field())
			details = append(details, ErrorDetail{Field: field, Message: describe(field, fe)})
		}
		RespondError(c, http.StatusBadRequest, "Invalid request", details...)
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		RespondError(c, http.StatusBadRequest, "Malformed JSON body")
	case errors.As(err, &typeErr):
		RespondError(c, http.StatusBadRequest, "Invalid request",
			ErrorDetail{Field: typeErr.Field, Message: typeErr.Field + " has the wrong type"})
	default:
		RespondError(c, http.StatusBadRequest, "Invalid request", ErrorDetail{Message: err.Error()})
	}
}

// Maps service errors onto HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]ErrorDetail, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, ErrorDetail{Field: f.Field, Message: f.Message})
		}
		RespondError(c, http.StatusBadRequest, "Invalid request", details...)
	case errors.Is(err, service.ErrShootingSpeedNotFound):
		RespondError(c, http.StatusNotFound, "Shooting speed not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrRootExists):
		RespondError(c, http.StatusConflict, "A root account already exists")
	default:
		log.Printf("[%s] %s %s failed: %v", c.GetString("request_id"), c.Request.Method, c.FullPath(), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "email":
		return field + " must be a valid email"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
