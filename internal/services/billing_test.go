package services

import (
	"encoding/json"
	"testing"

	"github.com/stripe/stripe-go/v78"

	"github.com/inneranimal/rescue-api/internal/models"
)

func stripeEvent(t *testing.T, eventType, raw string) stripe.Event {
	t.Helper()
	return stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestHandleCheckoutSessionCompleted(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&models.Profile{ID: "user-1", Email: "pat@example.com"}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	event := stripeEvent(t, "checkout.session.completed", `{
		"id": "cs_123",
		"customer": {"id": "cus_1"},
		"subscription": {"id": "sub_1"},
		"metadata": {"userId": "user-1"}
	}`)

	if err := HandleStripeEvent(db, event); err != nil {
		t.Fatalf("handle event failed: %v", err)
	}

	var sub models.Subscription
	if err := db.First(&sub, "user_id = ?", "user-1").Error; err != nil {
		t.Fatalf("subscription not created: %v", err)
	}
	if sub.Status != "active" {
		t.Errorf("expected active subscription, got %s", sub.Status)
	}
	if sub.StripeCustomerID != "cus_1" || sub.StripeSubscriptionID != "sub_1" {
		t.Errorf("stripe ids not recorded: %s %s", sub.StripeCustomerID, sub.StripeSubscriptionID)
	}
	if sub.CurrentPeriodStart == nil || sub.CurrentPeriodEnd == nil {
		t.Error("period bounds should be set")
	}

	var profile models.Profile
	if err := db.First(&profile, "id = ?", "user-1").Error; err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	if profile.SubscriptionStatus != "active" {
		t.Errorf("profile status not synced, got %s", profile.SubscriptionStatus)
	}
	if profile.StripeCustomerID != "cus_1" {
		t.Errorf("profile customer id not synced, got %s", profile.StripeCustomerID)
	}
}

func TestHandleCheckoutWithoutUserMetadata(t *testing.T) {
	db := newTestDB(t)

	event := stripeEvent(t, "checkout.session.completed", `{"id": "cs_456", "metadata": {}}`)
	if err := HandleStripeEvent(db, event); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Error("no subscription should be written without a user id")
	}
}

func TestHandleSubscriptionUpdated(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&models.Profile{
		ID:               "user-1",
		Email:            "pat@example.com",
		StripeCustomerID: "cus_1",
	}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	active := stripeEvent(t, "customer.subscription.updated", `{
		"id": "sub_1",
		"customer": {"id": "cus_1"},
		"status": "trialing",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000
	}`)
	if err := HandleStripeEvent(db, active); err != nil {
		t.Fatalf("handle trialing failed: %v", err)
	}

	var sub models.Subscription
	if err := db.First(&sub, "user_id = ?", "user-1").Error; err != nil {
		t.Fatalf("subscription not created: %v", err)
	}
	if sub.Status != "active" {
		t.Errorf("trialing should map to active, got %s", sub.Status)
	}

	canceled := stripeEvent(t, "customer.subscription.deleted", `{
		"id": "sub_1",
		"customer": {"id": "cus_1"},
		"status": "canceled",
		"current_period_start": 1700000000,
		"current_period_end": 1702592000
	}`)
	if err := HandleStripeEvent(db, canceled); err != nil {
		t.Fatalf("handle canceled failed: %v", err)
	}

	if err := db.First(&sub, "user_id = ?", "user-1").Error; err != nil {
		t.Fatalf("subscription lookup failed: %v", err)
	}
	if sub.Status != "inactive" {
		t.Errorf("canceled should map to inactive, got %s", sub.Status)
	}

	var profile models.Profile
	db.First(&profile, "id = ?", "user-1")
	if profile.SubscriptionStatus != "inactive" {
		t.Errorf("profile status not synced, got %s", profile.SubscriptionStatus)
	}
}

func TestHandleSubscriptionForUnknownCustomer(t *testing.T) {
	db := newTestDB(t)

	event := stripeEvent(t, "customer.subscription.updated", `{
		"id": "sub_9",
		"customer": {"id": "cus_missing"},
		"status": "active"
	}`)
	if err := HandleStripeEvent(db, event); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}

	var count int64
	db.Model(&models.Subscription{}).Count(&count)
	if count != 0 {
		t.Error("no subscription should be written for an unknown customer")
	}
}

func TestHandleUnrecognizedEvent(t *testing.T) {
	db := newTestDB(t)

	event := stripeEvent(t, "invoice.finalized", `{"id": "in_1"}`)
	if err := HandleStripeEvent(db, event); err != nil {
		t.Fatalf("unrecognized events should be acknowledged, got %v", err)
	}
}
