package middleware

import (
	"errors"
	"log"

	"shoemart/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber error handler. It turns the repository's typed
// errors into JSON responses:
//
//	*models.ValidationError -> 400 with a field -> reason map
//	*models.NotFoundError   -> 404
//	*fiber.Error            -> its own code
//	anything else           -> 500 without internal details
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		verr  *models.ValidationError
		nf    *models.NotFoundError
		ferr  *fiber.Error
		stErr *models.StorageError
	)

	switch {
	case errors.As(err, &verr):
		fields := make(fiber.Map, len(verr.Violations))
		for _, v := range verr.Violations {
			fields[v.Field] = v.Reason
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fields,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.As(err, &ferr):
		return c.Status(ferr.Code).JSON(fiber.Map{
			"message": ferr.Message,
		})
	case errors.As(err, &stErr):
		log.Printf("[http] %s %s: storage failure: %v", c.Method(), c.Path(), err)
	default:
		log.Printf("[http] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
