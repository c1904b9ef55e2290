package response

import "github.com/gofiber/fiber/v2"

// Success sends a 200 response carrying message plus payload fields
func Success(c *fiber.Ctx, message string, payload fiber.Map) error {
	return c.JSON(withMessage(message, payload))
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, payload fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(withMessage(message, payload))
}

// Message sends a 200 response with only a message
func Message(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"message": message})
}

// List sends a bare JSON value (arrays for collection endpoints)
func List(c *fiber.Ctx, items interface{}) error {
	return c.JSON(items)
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// ValidationFailed sends a 400 response naming the rejected field
func ValidationFailed(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"field":   field,
	})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// InternalServerError sends a 500 response. detail is only included when non-empty,
// callers pass it in development mode only.
func InternalServerError(c *fiber.Ctx, message, detail string) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if detail != "" {
		body["error"] = detail
	}
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}

func withMessage(message string, payload fiber.Map) fiber.Map {
	body := fiber.Map{"message": message}
	for k, v := range payload {
		body[k] = v
	}
	return body
}
