package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
)

type checkoutBackend struct {
	ordersCalls    int
	fromPlanCalls  int
	addressCalls   int
	failPlacement  bool
	lastOrderItems []models.BasketItem
	lastContact    string
}

func (b *checkoutBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/addresses":
			b.addressCalls++
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"address_id": 42})
		case "/api/v1/orders/create":
			b.ordersCalls++
			if b.failPlacement {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "Stock changed while placing the order. Try again."})
				return
			}
			var req struct {
				Items         []models.BasketItem `json:"items"`
				ContactNumber string              `json:"contact_number"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			b.lastOrderItems = req.Items
			b.lastContact = req.ContactNumber
			if req.ContactNumber == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "contact_number is required"})
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"order_id": 101, "order_ids": []int{101}, "total_cost": 353.0,
				"chosen_mart_name": "FreshMart", "delivery_charge": 25,
			})
		case "/api/v1/orders/create-from-plan":
			b.fromPlanCalls++
			var req struct {
				ContactNumber string `json:"contact_number"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			b.lastContact = req.ContactNumber
			if req.ContactNumber == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": "contact_number is required"})
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"orders": []map[string]interface{}{
					{"order_id": 101, "mart_name": "FreshMart", "total_cost": 300.0},
					{"order_id": 102, "mart_name": "ValueBazaar", "total_cost": 212.5},
				},
				"grand_total": 512.5,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestCheckout(t *testing.T, backend *checkoutBackend, authenticated bool) (*Checkout, *Cart, func()) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())

	store := NewSessionStore()
	if authenticated {
		store.Set(KeyToken, "deadbeef")
	}
	api := NewAPI(srv.URL, store)
	cart := NewCart(store)
	return NewCheckout(api, cart, nil), cart, srv.Close
}

func validDetails() Details {
	return Details{
		Name:        "Asha Rao",
		Email:       "asha@example.com",
		Phone:       "9999999999",
		AddressText: "12 Beach Road, Visakhapatnam",
	}
}

func TestCheckoutDetailsValidation(t *testing.T) {
	ck, _, done := newTestCheckout(t, &checkoutBackend{}, true)
	defer done()

	cases := []struct {
		mutate func(*Details)
		want   error
	}{
		{func(d *Details) { d.Name = "  " }, ErrMissingName},
		{func(d *Details) { d.Email = "" }, ErrMissingEmail},
		{func(d *Details) { d.AddressText = ""; d.AddressID = nil }, ErrMissingAddress},
	}
	for _, tc := range cases {
		d := validDetails()
		tc.mutate(&d)
		if err := ck.SubmitDetails(d); err != tc.want {
			t.Errorf("SubmitDetails = %v, want %v", err, tc.want)
		}
		if ck.State() != StateDetails {
			t.Error("rejected details advanced the state")
		}
	}

	if err := ck.SubmitDetails(validDetails()); err != nil {
		t.Fatal(err)
	}
	if ck.State() != StatePayment {
		t.Error("valid details did not advance to payment")
	}
}

func TestCheckoutRequiresPhoneAndAuth(t *testing.T) {
	ck, cart, done := newTestCheckout(t, &checkoutBackend{}, false)
	defer done()
	cart.Add(1, 1)

	d := validDetails()
	d.Phone = ""
	if err := ck.SubmitDetails(d); err != nil {
		t.Fatal(err)
	}
	if _, err := ck.PlaceOrder(context.Background()); err != ErrMissingPhone {
		t.Errorf("PlaceOrder without phone = %v, want ErrMissingPhone", err)
	}

	ck2, cart2, done2 := newTestCheckout(t, &checkoutBackend{}, false)
	defer done2()
	cart2.Add(1, 1)
	if err := ck2.SubmitDetails(validDetails()); err != nil {
		t.Fatal(err)
	}
	if _, err := ck2.PlaceOrder(context.Background()); err != ErrNotAuthenticated {
		t.Errorf("PlaceOrder without token = %v, want ErrNotAuthenticated", err)
	}
	if ck2.State() != StatePayment {
		t.Error("failed placement left the payment state")
	}
}

func TestCheckoutSingleOrder(t *testing.T) {
	backend := &checkoutBackend{}
	ck, cart, done := newTestCheckout(t, backend, true)
	defer done()
	cart.Add(1, 1)
	cart.Add(2, 3)

	if err := ck.SubmitDetails(validDetails()); err != nil {
		t.Fatal(err)
	}
	confirmation, err := ck.PlaceOrder(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if backend.addressCalls != 1 {
		t.Errorf("address creations = %d, want 1 for the typed address", backend.addressCalls)
	}
	if backend.ordersCalls != 1 || backend.fromPlanCalls != 0 {
		t.Errorf("orders=%d fromPlan=%d, want the single-order branch", backend.ordersCalls, backend.fromPlanCalls)
	}
	if len(backend.lastOrderItems) != 2 {
		t.Errorf("submitted items = %d, want 2", len(backend.lastOrderItems))
	}
	if len(confirmation.OrderIDs) != 1 || confirmation.OrderIDs[0] != 101 {
		t.Errorf("order ids = %v, want [101]", confirmation.OrderIDs)
	}
	if backend.lastContact != "9999999999" {
		t.Errorf("contact number sent = %q, want the shopper's phone", backend.lastContact)
	}
	if len(confirmation.Orders) != 1 || confirmation.Orders[0].MartName != "FreshMart" {
		t.Errorf("orders = %+v, want the chosen mart named", confirmation.Orders)
	}
	if confirmation.FromPlan {
		t.Error("confirmation claims a plan was used")
	}
	if cart.Len() != 0 {
		t.Error("cart not cleared after success")
	}
	if ck.State() != StateConfirmation {
		t.Error("state did not reach confirmation")
	}
}

func TestCheckoutPlanFanOut(t *testing.T) {
	backend := &checkoutBackend{}
	ck, cart, done := newTestCheckout(t, backend, true)
	defer done()
	cart.Add(1, 1)

	ck.AttachPlan(&ConfirmedPlan{
		Plan:        &models.OptimizationPlan{GrandTotal: 512.5, Marts: []models.PlanMart{{MartID: 1}, {MartID: 2}}},
		Fingerprint: cart.Fingerprint(),
	})
	d := validDetails()
	addrID := 7
	d.AddressID = &addrID
	if err := ck.SubmitDetails(d); err != nil {
		t.Fatal(err)
	}

	confirmation, err := ck.PlaceOrder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if backend.fromPlanCalls != 1 || backend.ordersCalls != 0 {
		t.Errorf("fromPlan=%d orders=%d, want the plan branch", backend.fromPlanCalls, backend.ordersCalls)
	}
	if backend.addressCalls != 0 {
		t.Error("saved address still triggered an address creation")
	}
	if len(confirmation.OrderIDs) != 2 {
		t.Errorf("order ids = %v, want one per mart", confirmation.OrderIDs)
	}
	if backend.lastContact != "9999999999" {
		t.Errorf("contact number sent = %q, want the shopper's phone", backend.lastContact)
	}
	if len(confirmation.Orders) != 2 {
		t.Fatalf("orders = %+v, want one summary per mart", confirmation.Orders)
	}
	if confirmation.Orders[0].MartName != "FreshMart" || confirmation.Orders[0].Total != 300.0 {
		t.Errorf("first order = %+v, want FreshMart at 300", confirmation.Orders[0])
	}
	if confirmation.Orders[1].MartName != "ValueBazaar" || confirmation.Orders[1].Total != 212.5 {
		t.Errorf("second order = %+v, want ValueBazaar at 212.5", confirmation.Orders[1])
	}
	if confirmation.GrandTotal != 512.5 {
		t.Errorf("grand total = %v, want 512.5", confirmation.GrandTotal)
	}
	if !confirmation.FromPlan {
		t.Error("confirmation does not record the plan branch")
	}
}

func TestCheckoutStalePlanFallsBack(t *testing.T) {
	backend := &checkoutBackend{}
	ck, cart, done := newTestCheckout(t, backend, true)
	defer done()
	cart.Add(1, 1)

	ck.AttachPlan(&ConfirmedPlan{
		Plan:        &models.OptimizationPlan{Marts: []models.PlanMart{{MartID: 1}}},
		Fingerprint: cart.Fingerprint(),
	})

	// Cart changes after the plan was confirmed.
	cart.Add(2, 1)

	if err := ck.SubmitDetails(validDetails()); err != nil {
		t.Fatal(err)
	}
	confirmation, err := ck.PlaceOrder(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if backend.fromPlanCalls != 0 || backend.ordersCalls != 1 {
		t.Errorf("fromPlan=%d orders=%d, want the stale plan dropped", backend.fromPlanCalls, backend.ordersCalls)
	}
	if confirmation.FromPlan {
		t.Error("stale plan reported as honored")
	}
}

func TestCheckoutFailureStaysAtPayment(t *testing.T) {
	backend := &checkoutBackend{failPlacement: true}
	ck, cart, done := newTestCheckout(t, backend, true)
	defer done()
	cart.Add(1, 1)

	if err := ck.SubmitDetails(validDetails()); err != nil {
		t.Fatal(err)
	}
	_, err := ck.PlaceOrder(context.Background())
	if err == nil {
		t.Fatal("expected placement to fail")
	}
	if err.Error() != "Stock changed while placing the order. Try again." {
		t.Errorf("error = %q, want the backend payload", err.Error())
	}
	if ck.State() != StatePayment {
		t.Error("failure moved the state off payment")
	}
	if cart.Len() != 1 {
		t.Error("failure cleared the cart")
	}
}
