package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionDeleted = "customer.subscription.deleted"

	billingEventTTL = 24 * time.Hour
)

// BillingEvent is the part of a verified payment webhook this service acts on.
type BillingEvent struct {
	ID                string
	Type              string
	ClientReferenceID string
	CustomerID        string
}

type BillingResult struct {
	Handled   bool
	Duplicate bool
	Affected  int64
}

// EventDeduper records processed event ids.
type EventDeduper interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type ProStatusSetter interface {
	SetProStatus(ctx context.Context, change ProStatusChange) (int64, error)
}

type BillingUsecase interface {
	HandleEvent(ctx context.Context, ev BillingEvent) (BillingResult, error)
}

type Billing struct {
	profiles ProStatusSetter
	dedupe   EventDeduper
	logger   *log.Logger
}

func NewBillingUsecase(profiles ProStatusSetter, dedupe EventDeduper, logger *log.Logger) *Billing {
	return &Billing{profiles: profiles, dedupe: dedupe, logger: logger}
}

func BillingEventKey(eventID string) string {
	return "billing:event:" + strings.TrimSpace(eventID)
}

// HandleEvent applies a payment event at most once per event id. Events for
// users that never saved a profile are acknowledged and ignored.
func (u *Billing) HandleEvent(ctx context.Context, ev BillingEvent) (BillingResult, error) {
	var change ProStatusChange
	switch ev.Type {
	case EventCheckoutCompleted:
		id, err := uuid.Parse(strings.TrimSpace(ev.ClientReferenceID))
		if err != nil {
			u.logf("[Billing] checkout %s without a valid client_reference_id", ev.ID)
			return BillingResult{}, nil
		}
		change = ProStatusChange{UserID: id, CustomerID: ev.CustomerID, Active: true}
	case EventSubscriptionDeleted:
		if ev.CustomerID == "" {
			u.logf("[Billing] subscription deletion %s without customer", ev.ID)
			return BillingResult{}, nil
		}
		change = ProStatusChange{CustomerID: ev.CustomerID}
	default:
		return BillingResult{}, nil
	}

	key := ""
	if u.dedupe != nil && ev.ID != "" {
		key = BillingEventKey(ev.ID)
		first, err := u.dedupe.SetIfNotExists(ctx, key, ev.Type, billingEventTTL)
		if err != nil {
			u.logf("[Billing] dedupe unavailable for %s: %v", ev.ID, err)
			key = ""
		} else if !first {
			u.logf("[Billing] duplicate event %s", ev.ID)
			return BillingResult{Handled: true, Duplicate: true}, nil
		}
	}

	n, err := u.profiles.SetProStatus(ctx, change)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			u.logf("[Billing] %s for user %s without profile ignored", ev.Type, change.UserID)
			return BillingResult{Handled: true}, nil
		}
		// Release the marker so the provider's retry is processed.
		if key != "" {
			_ = u.dedupe.Delete(ctx, key)
		}
		return BillingResult{}, err
	}

	u.logf("[Billing] %s applied to %d profile(s)", ev.Type, n)
	return BillingResult{Handled: true, Affected: n}, nil
}

func (u *Billing) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ BillingUsecase = (*Billing)(nil)
