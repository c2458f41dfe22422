package billing

import (
	"time"

	"github.com/fitpulseapp/fitpulse/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the billing service.
type Repository interface {
	ListActivePlans(interval string) ([]models.SubscriptionPlan, error)
	GetPlanByID(id string) (*models.SubscriptionPlan, error)
	ListActiveEquivalentSubscriptions(userID uint) ([]models.Subscription, error)
	CreateSubscription(sub *models.Subscription) error
	UpsertSubscriptionByProviderRef(sub *models.Subscription) error
	GetSubscriptionByProviderRef(providerRef string) (*models.Subscription, error)
	UpdateSubscription(id string, updates map[string]interface{}) error
	CreatePaymentRecord(record *models.PaymentHistory) error
	ListPaymentHistoryByUser(userID uint) ([]models.PaymentHistory, error)
	GetUserByID(id uint) (*models.User, error)
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListActivePlans(interval string) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.
		Where("is_active = ? AND `interval` = ?", true, interval).
		Order("price ASC").
		Find(&plans).Error
	return plans, err
}

func (r *gormRepository) GetPlanByID(id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) ListActiveEquivalentSubscriptions(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.
		Where("user_id = ? AND status IN ?", userID, []string{
			models.SubscriptionStatusActive,
			models.SubscriptionStatusTrialing,
		}).
		Find(&subs).Error
	return subs, err
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) UpsertSubscriptionByProviderRef(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stripe_subscription_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"plan_id",
			"status",
			"current_period_start",
			"current_period_end",
			"trial_start",
			"trial_end",
			"cancel_at",
			"canceled_at",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Re-select into a fresh struct: selecting into sub would add its
	// locally generated ID as a primary-key condition, which does not
	// match the existing row on the conflict path.
	var stored models.Subscription
	if err := r.db.Where("stripe_subscription_id = ?", sub.StripeSubscriptionID).
		First(&stored).Error; err != nil {
		return err
	}
	*sub = stored
	return nil
}

func (r *gormRepository) GetSubscriptionByProviderRef(providerRef string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("stripe_subscription_id = ?", providerRef).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpdateSubscription(id string, updates map[string]interface{}) error {
	return r.db.Model(&models.Subscription{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) CreatePaymentRecord(record *models.PaymentHistory) error {
	return r.db.Create(record).Error
}

func (r *gormRepository) ListPaymentHistoryByUser(userID uint) ([]models.PaymentHistory, error) {
	var records []models.PaymentHistory
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
