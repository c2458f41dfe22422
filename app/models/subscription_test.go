package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsActiveEquivalentStatus(t *testing.T) {
	assert.True(t, IsActiveEquivalentStatus(SubscriptionStatusActive))
	assert.True(t, IsActiveEquivalentStatus(SubscriptionStatusTrialing))

	assert.False(t, IsActiveEquivalentStatus(SubscriptionStatusPastDue))
	assert.False(t, IsActiveEquivalentStatus(SubscriptionStatusCanceled))
	assert.False(t, IsActiveEquivalentStatus(SubscriptionStatusIncomplete))
	assert.False(t, IsActiveEquivalentStatus(SubscriptionStatusIncompleteExpired))
	assert.False(t, IsActiveEquivalentStatus(SubscriptionStatusUnpaid))
	assert.False(t, IsActiveEquivalentStatus(""))
}

func TestSubscriptionIsActiveEquivalent(t *testing.T) {
	assert.True(t, (&Subscription{Status: SubscriptionStatusTrialing}).IsActiveEquivalent())
	assert.False(t, (&Subscription{Status: SubscriptionStatusCanceled}).IsActiveEquivalent())
}

func TestPlanHasTrial(t *testing.T) {
	assert.True(t, (&SubscriptionPlan{TrialDays: 7}).HasTrial())
	assert.False(t, (&SubscriptionPlan{TrialDays: 0}).HasTrial())
}

func TestPlanFeatureList(t *testing.T) {
	plan := &SubscriptionPlan{Features: []byte(`["Workouts","Meals"]`)}
	assert.Equal(t, []string{"Workouts", "Meals"}, plan.FeatureList())

	assert.Nil(t, (&SubscriptionPlan{}).FeatureList())
	assert.Nil(t, (&SubscriptionPlan{Features: []byte(`{broken`)}).FeatureList())
}
