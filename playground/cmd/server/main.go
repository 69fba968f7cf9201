package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
)

const addr = ":3000"

type eventsPayload struct {
	Events []event `json:"events"`
}

type event struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"`
	IssuedAt   int64             `json:"issuedAt"`
}

// receiveEvents accepts BatchSink uploads. An event carrying the property
// trigger_error=1 makes the whole batch fail with 500 so retries can be
// observed.
func receiveEvents(c *fiber.Ctx) error {
	apiKey := c.Get("X-API-Key")
	if apiKey == "" {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "missing_api_key"})
	}

	var payload eventsPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("invalid JSON: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid_json"})
	}

	for _, e := range payload.Events {
		log.Printf("event %s id=%s issuedAt=%d properties=%v", e.Name, e.ID, e.IssuedAt, e.Properties)
		if e.Properties["trigger_error"] == "1" {
			log.Printf("simulating server error for batch of %d", len(payload.Events))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "simulated_server_error"})
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":  true,
		"received": len(payload.Events),
	})
}

// collectHit stands in for the Measurement Protocol collector.
func collectHit(c *fiber.Ctx) error {
	hit := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		hit[string(k)] = string(v)
	})
	log.Printf("hit %s %v", hit["t"], hit)
	return c.SendStatus(http.StatusOK)
}

func main() {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/events", receiveEvents)
	app.Post("/collect", collectHit)

	go func() {
		log.Printf("playground collector listening on %s (POST /events, POST /collect)", addr)
		if err := app.Listen(addr); err != nil {
			log.Printf("fiber stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
