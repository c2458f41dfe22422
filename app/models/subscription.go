package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusActive            = "active"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusUnpaid            = "unpaid"
)

// Subscription mirrors the payment processor's subscription state for one
// user/plan pairing. Rows are never deleted, only transitioned to canceled.
type Subscription struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;index" json:"user_id"`
	PlanID               string     `gorm:"type:varchar(36);not null;index" json:"plan_id"`
	StripeSubscriptionID string     `gorm:"type:varchar(191);default:null;uniqueIndex:ux_subscriptions_stripe_id" json:"stripe_subscription_id,omitempty"`
	Status               string     `gorm:"type:varchar(32);not null;index" json:"status"`
	CurrentPeriodStart   *time.Time `gorm:"type:timestamp;default:null" json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	TrialStart           *time.Time `gorm:"type:timestamp;default:null" json:"trial_start,omitempty"`
	TrialEnd             *time.Time `gorm:"type:timestamp;default:null" json:"trial_end,omitempty"`
	CancelAt             *time.Time `gorm:"type:timestamp;default:null" json:"cancel_at,omitempty"`
	CanceledAt           *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Plan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsActiveEquivalent reports whether the subscription grants access.
func (s *Subscription) IsActiveEquivalent() bool {
	return IsActiveEquivalentStatus(s.Status)
}

// IsActiveEquivalentStatus reports whether a status counts as "has access".
func IsActiveEquivalentStatus(status string) bool {
	switch status {
	case SubscriptionStatusActive, SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}
