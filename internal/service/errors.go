package service

import (
	"errors"
	"fmt"
)

var (
	ErrShootingSpeedNotFound = errors.New("shooting speed not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrRootExists            = errors.New("a root account already exists")
	ErrInvalidToken          = errors.New("invalid token")
)

// Describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Returned when input fails domain validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("%s: %s", e.Fields[0].Field, e.Fields[0].Message)
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
