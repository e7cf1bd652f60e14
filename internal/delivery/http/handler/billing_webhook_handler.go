package handler

import (
	"encoding/json"
	"strings"

	"hydroguide/internal/delivery/http/middleware"
	"hydroguide/internal/pkg/response"
	"hydroguide/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stripe/stripe-go/v76/webhook"
)

const HeaderStripeSignature = "Stripe-Signature"

// BillingWebhookHandler receives signed payment events. The body is verified
// against the webhook secret before anything is parsed.
type BillingWebhookHandler struct {
	uc     usecase.BillingUsecase
	secret string
}

func NewBillingWebhookHandler(uc usecase.BillingUsecase, secret string) *BillingWebhookHandler {
	return &BillingWebhookHandler{uc: uc, secret: strings.TrimSpace(secret)}
}

func (h *BillingWebhookHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/stripe", h.Receive)
}

type billingObject struct {
	ClientReferenceID string          `json:"client_reference_id"`
	Customer          json.RawMessage `json:"customer"`
}

// customerID accepts both the bare id and the expanded customer object.
func (o billingObject) customerID() string {
	if len(o.Customer) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(o.Customer, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(o.Customer, &obj); err == nil {
		return obj.ID
	}
	return ""
}

type billingAck struct {
	Received  bool  `json:"received"`
	Handled   bool  `json:"handled"`
	Duplicate bool  `json:"duplicate"`
	Affected  int64 `json:"affected"`
}

func (h *BillingWebhookHandler) Receive(c fiber.Ctx) error {
	if h.secret == "" {
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Billing is not configured", nil, nil)
	}

	event, err := webhook.ConstructEventWithOptions(c.Body(), c.Get(HeaderStripeSignature), h.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return badRequest("Invalid signature", err)
	}

	var obj billingObject
	if event.Data != nil && len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &obj); err != nil {
			return badRequest("Malformed event payload", err)
		}
	}

	res, err := h.uc.HandleEvent(c.Context(), usecase.BillingEvent{
		ID:                event.ID,
		Type:              string(event.Type),
		ClientReferenceID: obj.ClientReferenceID,
		CustomerID:        obj.customerID(),
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, billingAck{
		Received:  true,
		Handled:   res.Handled,
		Duplicate: res.Duplicate,
		Affected:  res.Affected,
	})
}
