package billing

import (
	"strings"

	"github.com/fitpulseapp/fitpulse/app/models"
)

// NormalizeSubscriptionStatus maps a processor-reported status onto the local
// status enum. Unknown statuses fail closed to incomplete so they never grant
// access.
func NormalizeSubscriptionStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.SubscriptionStatusActive:
		return models.SubscriptionStatusActive
	case models.SubscriptionStatusTrialing:
		return models.SubscriptionStatusTrialing
	case models.SubscriptionStatusPastDue:
		return models.SubscriptionStatusPastDue
	case models.SubscriptionStatusCanceled:
		return models.SubscriptionStatusCanceled
	case models.SubscriptionStatusIncomplete:
		return models.SubscriptionStatusIncomplete
	case models.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusIncompleteExpired
	case models.SubscriptionStatusUnpaid:
		return models.SubscriptionStatusUnpaid
	default:
		return models.SubscriptionStatusIncomplete
	}
}

// NormalizeInterval maps catalog interval spellings onto monthly/yearly.
func NormalizeInterval(interval string) string {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case models.PlanIntervalYearly, "year", "annual", "annually":
		return models.PlanIntervalYearly
	default:
		return models.PlanIntervalMonthly
	}
}

// processorInterval converts a catalog interval into the processor's
// recurring-interval vocabulary.
func processorInterval(interval string) string {
	if NormalizeInterval(interval) == models.PlanIntervalYearly {
		return "year"
	}
	return "month"
}
