package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusSucceeded  = "succeeded"
	PaymentStatusProcessing = "processing"
	PaymentStatusFailed     = "failed"
)

// PaymentMethodFreeTrial is the method label written for trial activations.
const PaymentMethodFreeTrial = "Free Trial"

// PaymentHistory is an append-only ledger of checkout and invoice outcomes.
type PaymentHistory struct {
	ID                    string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID                uint      `gorm:"not null;index" json:"user_id"`
	SubscriptionID        string    `gorm:"type:varchar(36);default:null;index" json:"subscription_id,omitempty"`
	StripePaymentIntentID string    `gorm:"type:varchar(191);default:null" json:"stripe_payment_intent_id,omitempty"`
	Amount                float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency              string    `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	Status                string    `gorm:"type:varchar(20);not null" json:"status"`
	Description           string    `gorm:"type:varchar(255)" json:"description"`
	PaymentMethod         string    `gorm:"type:varchar(100);default:null" json:"payment_method,omitempty"`
	ReceiptURL            string    `gorm:"type:varchar(500);default:null" json:"receipt_url,omitempty"`
	CreatedAt             time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (p *PaymentHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
