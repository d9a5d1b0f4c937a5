package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/services"
)

// Checkout states, strictly forward.
type CheckoutState int

const (
	StateDetails CheckoutState = iota
	StatePayment
	StateConfirmation
)

// Checkout errors surfaced to callers for precondition failures.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingName      = errors.New("name is required")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingAddress   = errors.New("delivery address is required")
	ErrMissingPhone     = errors.New("phone number is required")
	ErrWrongState       = errors.New("checkout is not at this step")
)

// Details is what the shopper fills in at the first step. Either a typed
// address or a saved address id must be present.
type Details struct {
	Name        string
	Email       string
	Phone       string
	AddressText string
	AddressID   *int
}

// OrderSummary is one placed order as shown on the confirmation screen.
type OrderSummary struct {
	OrderID  int     `json:"order_id"`
	MartName string  `json:"mart_name"`
	Total    float64 `json:"total_cost"`
}

// Confirmation is the terminal state payload.
type Confirmation struct {
	OrderIDs   []int
	Orders     []OrderSummary
	GrandTotal float64
	FromPlan   bool
}

// Checkout walks a cart (and optionally a confirmed optimization plan)
// through details, payment and confirmation. All precondition checks are
// local; the network is only touched when the order is actually placed.
type Checkout struct {
	api      *API
	cart     *Cart
	geocoder *services.Geocoder

	state        CheckoutState
	details      Details
	plan         *ConfirmedPlan
	confirmation *Confirmation
}

// NewCheckout starts a checkout at the details step. The geocoder is
// optional; without one, typed addresses are created without coordinates.
func NewCheckout(api *API, cart *Cart, geocoder *services.Geocoder) *Checkout {
	return &Checkout{api: api, cart: cart, geocoder: geocoder, state: StateDetails}
}

// State reports the current step.
func (ck *Checkout) State() CheckoutState {
	return ck.state
}

// Confirmation returns the terminal payload, nil before completion.
func (ck *Checkout) Confirmation() *Confirmation {
	return ck.confirmation
}

// AttachPlan carries a confirmed optimization plan into the checkout. The
// plan is only honored at placement if its fingerprint still matches the
// cart.
func (ck *Checkout) AttachPlan(plan *ConfirmedPlan) {
	ck.plan = plan
}

// SubmitDetails validates the first step and advances to payment.
func (ck *Checkout) SubmitDetails(d Details) error {
	if ck.state != StateDetails {
		return ErrWrongState
	}
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(d.Email) == "" {
		return ErrMissingEmail
	}
	if d.AddressID == nil && strings.TrimSpace(d.AddressText) == "" {
		return ErrMissingAddress
	}

	ck.details = d
	ck.state = StatePayment
	return nil
}

// PlaceOrder validates the payment step preconditions locally, then places
// the order. A fresh attached plan fans out into one order per mart; a
// stale or absent plan falls back to a single order from the raw cart.
// On success the cart is cleared and the checkout reaches confirmation; on
// failure the state stays at payment so the shopper can retry.
func (ck *Checkout) PlaceOrder(ctx context.Context) (*Confirmation, error) {
	if ck.state != StatePayment {
		return nil, ErrWrongState
	}
	if ck.details.AddressID == nil && strings.TrimSpace(ck.details.AddressText) == "" {
		return nil, ErrMissingAddress
	}
	if strings.TrimSpace(ck.details.Phone) == "" {
		return nil, ErrMissingPhone
	}
	if ck.api.Token() == "" {
		return nil, ErrNotAuthenticated
	}

	addressID, err := ck.resolveAddress(ctx)
	if err != nil {
		return nil, err
	}

	// Stale plans are dropped, not honored: the cart changed since the
	// plan was computed, so its line-up no longer matches.
	plan := ck.plan
	if plan != nil && plan.Fingerprint != ck.cart.Fingerprint() {
		plan = nil
		ck.plan = nil
	}

	contact := strings.TrimSpace(ck.details.Phone)

	if plan != nil {
		var result struct {
			Orders     []OrderSummary `json:"orders"`
			GrandTotal float64        `json:"grand_total"`
		}
		err = ck.api.Post(ctx, "/api/v1/orders/create-from-plan", map[string]interface{}{
			"plan":           plan.Plan,
			"address_id":     addressID,
			"contact_number": contact,
		}, &result)
		if err != nil {
			return nil, err
		}

		ids := make([]int, 0, len(result.Orders))
		sum := 0.0
		for _, o := range result.Orders {
			ids = append(ids, o.OrderID)
			sum += o.Total
		}
		total := result.GrandTotal
		if total == 0 {
			total = sum
		}
		ck.confirmation = &Confirmation{
			OrderIDs:   ids,
			Orders:     result.Orders,
			GrandTotal: total,
			FromPlan:   true,
		}
	} else {
		var result struct {
			OrderID   int     `json:"order_id"`
			OrderIDs  []int   `json:"order_ids"`
			TotalCost float64 `json:"total_cost"`
			MartName  string  `json:"chosen_mart_name"`
		}
		err = ck.api.Post(ctx, "/api/v1/orders/create", map[string]interface{}{
			"items":          normalizeItems(ck.cart.Items()),
			"address_id":     addressID,
			"contact_number": contact,
		}, &result)
		if err != nil {
			return nil, err
		}

		ids := result.OrderIDs
		if len(ids) == 0 && result.OrderID != 0 {
			ids = []int{result.OrderID}
		}
		orderID := result.OrderID
		if orderID == 0 && len(ids) > 0 {
			orderID = ids[0]
		}
		ck.confirmation = &Confirmation{
			OrderIDs:   ids,
			Orders:     []OrderSummary{{OrderID: orderID, MartName: result.MartName, Total: result.TotalCost}},
			GrandTotal: result.TotalCost,
			FromPlan:   false,
		}
	}

	ck.cart.Clear()
	ck.state = StateConfirmation
	return ck.confirmation, nil
}

// resolveAddress returns the saved address id to order against, creating
// one from the typed address when none was selected. Geocoding the typed
// address is best-effort; failure only omits the coordinates.
func (ck *Checkout) resolveAddress(ctx context.Context) (*int, error) {
	if ck.details.AddressID != nil {
		return ck.details.AddressID, nil
	}

	body := map[string]interface{}{
		"line1":         strings.TrimSpace(ck.details.AddressText),
		"contact_name":  ck.details.Name,
		"contact_phone": ck.details.Phone,
	}
	if ck.geocoder != nil {
		if lat, long, err := ck.geocoder.Geocode(ck.details.AddressText); err == nil {
			body["location_lat"] = lat
			body["location_long"] = long
		}
	}

	var created struct {
		AddressID int `json:"address_id"`
	}
	if err := ck.api.Post(ctx, "/api/v1/addresses", body, &created); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	return &created.AddressID, nil
}
