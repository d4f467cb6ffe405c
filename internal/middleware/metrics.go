package middleware

import (
	"time"

	"shoemart/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records the count and latency of every request, labelled by the
// matched route pattern rather than the raw path. Handler errors are
// rendered here so the recorded status is the one the client sees.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		metrics.RecordRequest(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
