package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fitpulseapp/fitpulse/internal/pkg/billing"
	"github.com/fitpulseapp/fitpulse/internal/pkg/env"
)

// HandleStripeWebhook receives billing events from Stripe.
//
// A request with a bad signature is rejected with 400 before anything is
// written. Once the signature checks out the event is acknowledged with 200
// no matter what happens during processing, because Stripe retries anything
// else and the retry would hit the same failure. Processing errors are kept
// on the stored event row instead.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	if !billing.VerifyStripeWebhookSignature(rawBody, signature, secret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_signature"})
	}

	event, parseErr := billing.ParseEvent(rawBody)

	var eventID, eventType string
	if event != nil {
		eventID = event.ID
		eventType = event.Type
	}

	svc := billingService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		// Persistence is best effort; the event must still be acknowledged.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "stored": false})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}

	if parseErr != nil {
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, parseErr)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	processErr := svc.ProcessEvent(ctx, event)
	_ = svc.MarkWebhookProcessed(ctx, stored.ID, processErr)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
