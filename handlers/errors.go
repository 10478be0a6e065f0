package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()

	var fe *fiber.Error
	var locErr *models.InvalidLocationError
	var valErr *models.ValidationError

	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &locErr), errors.As(err, &valErr):
		code = fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		code = fiber.StatusNotFound
	default:
		s.log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		msg = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}

func badRequest(field, message string) error {
	return &models.ValidationError{Field: field, Message: message}
}
