package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v78"
	portalsession "github.com/stripe/stripe-go/v78/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inneranimal/rescue-api/internal/models"
)

// CheckoutResult is what the frontend needs to redirect into Stripe Checkout
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateCheckoutSession starts a subscription checkout for the given price.
// The user id rides along as metadata so the webhook can attribute the
// completed session.
func CreateCheckoutSession(appURL, userID, email, priceID string) (*CheckoutResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(appURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(appURL + "/pricing"),
		CustomerEmail: stripe.String(email),
	}
	params.AddMetadata("userId", userID)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreateBillingPortalSession opens the Stripe billing portal for a user
// that already has a Stripe customer
func CreateBillingPortalSession(db *gorm.DB, appURL, userID string) (string, error) {
	var profile models.Profile
	err := db.First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("not found")
	}
	if err != nil {
		return "", fmt.Errorf("failed to load profile %s: %w", userID, err)
	}
	if profile.StripeCustomerID == "" {
		return "", fmt.Errorf("no billing account for this user")
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(profile.StripeCustomerID),
		ReturnURL: stripe.String(appURL + "/dashboard"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}

	return sess.URL, nil
}

// HandleStripeEvent applies a verified webhook event to local billing state.
// Unrecognized event types are logged and acknowledged.
func HandleStripeEvent(db *gorm.DB, event stripe.Event) error {
	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to decode checkout session: %w", err)
		}
		return applyCheckoutCompleted(db, &sess)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription: %w", err)
		}
		return applySubscriptionChange(db, &sub)

	case "payment_intent.succeeded", "payment_intent.payment_failed":
		log.Printf("stripe payment event: %s (%s)", event.Type, event.ID)
		return nil

	default:
		log.Printf("unhandled stripe event type: %s (%s)", event.Type, event.ID)
		return nil
	}
}

// applyCheckoutCompleted activates the subscription for the user named in
// the session metadata
func applyCheckoutCompleted(db *gorm.DB, sess *stripe.CheckoutSession) error {
	userID := sess.Metadata["userId"]
	if userID == "" {
		log.Printf("checkout session %s completed without userId metadata", sess.ID)
		return nil
	}

	var customerID, subscriptionID string
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}

	now := time.Now().UTC()
	periodEnd := now.AddDate(0, 0, 30)
	sub := models.Subscription{
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: subscriptionID,
		Status:               "active",
		CurrentPeriodStart:   &now,
		CurrentPeriodEnd:     &periodEnd,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_customer_id", "stripe_subscription_id", "status",
				"current_period_start", "current_period_end", "updated_at",
			}),
		}).Create(&sub).Error
		if err != nil {
			return fmt.Errorf("failed to upsert subscription for %s: %w", userID, err)
		}

		err = tx.Model(&models.Profile{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"stripe_customer_id":  customerID,
				"subscription_status": "active",
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update profile %s: %w", userID, err)
		}
		return nil
	})
}

// applySubscriptionChange syncs a subscription update or cancellation.
// The owning user is resolved through the profile's stored customer id.
func applySubscriptionChange(db *gorm.DB, sub *stripe.Subscription) error {
	if sub.Customer == nil {
		log.Printf("subscription %s has no customer, skipping", sub.ID)
		return nil
	}

	var profile models.Profile
	err := db.First(&profile, "stripe_customer_id = ?", sub.Customer.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("no profile for stripe customer %s, skipping subscription %s", sub.Customer.ID, sub.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve customer %s: %w", sub.Customer.ID, err)
	}

	status := "inactive"
	if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
		status = "active"
	}

	periodStart := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	record := models.Subscription{
		UserID:               profile.ID,
		StripeCustomerID:     sub.Customer.ID,
		StripeSubscriptionID: sub.ID,
		Status:               status,
		CurrentPeriodStart:   &periodStart,
		CurrentPeriodEnd:     &periodEnd,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stripe_customer_id", "stripe_subscription_id", "status",
				"current_period_start", "current_period_end", "updated_at",
			}),
		}).Create(&record).Error
		if err != nil {
			return fmt.Errorf("failed to upsert subscription for %s: %w", profile.ID, err)
		}

		err = tx.Model(&models.Profile{}).
			Where("id = ?", profile.ID).
			Update("subscription_status", status).Error
		if err != nil {
			return fmt.Errorf("failed to update profile %s: %w", profile.ID, err)
		}
		return nil
	})
}
