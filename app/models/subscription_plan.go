package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PlanIntervalMonthly = "monthly"
	PlanIntervalYearly  = "yearly"
)

// SubscriptionPlan is a catalog entry managed out-of-band; application code
// only ever reads it.
type SubscriptionPlan struct {
	ID            string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(150);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Interval      string         `gorm:"type:varchar(16);not null;default:'monthly';index" json:"interval"`
	Features      datatypes.JSON `gorm:"type:json" json:"features"`
	TrialDays     int            `gorm:"not null;default:0" json:"trial_days"`
	StripePriceID string         `gorm:"type:varchar(191);default:null" json:"stripe_price_id,omitempty"`
	IsActive      bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FeatureList decodes the JSON features column into an ordered string slice.
func (p *SubscriptionPlan) FeatureList() []string {
	if len(p.Features) == 0 {
		return nil
	}
	var features []string
	if err := json.Unmarshal(p.Features, &features); err != nil {
		return nil
	}
	return features
}

// HasTrial reports whether the plan activates via the free-trial path.
func (p *SubscriptionPlan) HasTrial() bool {
	return p.TrialDays > 0
}
