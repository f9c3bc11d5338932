package apperrors

import "github.com/gofiber/fiber/v2"

// Error is a domain failure with the HTTP status it should surface as.
// Services return exactly one Error per failed attempt; the global error
// handler translates it into the standard error envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func NotFound(message string) *Error {
	return New(fiber.StatusNotFound, message)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, message)
}

func BadRequest(message string) *Error {
	return New(fiber.StatusBadRequest, message)
}
