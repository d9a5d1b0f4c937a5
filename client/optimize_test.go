package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
)

func planFixture() models.OptimizationPlan {
	return models.OptimizationPlan{
		ItemsPrice:    348,
		DeliveryTotal: 33,
		GrandTotal:    381,
		EtaTotalMin:   5,
		Marts: []models.PlanMart{{
			MartID:         1,
			MartName:       "FreshMart",
			DistanceKm:     1.543,
			EtaMin:         5,
			WeightKg:       11.05,
			DeliveryCharge: 33,
			Items: []models.PlanMartItem{
				{ProductID: 1, Name: "Rice 5kg", Qty: 1, UnitPrice: 320, LinePrice: 320},
				{ProductID: 2, Name: "Milk 1L", Qty: 1, UnitPrice: 28, LinePrice: 28},
			},
		}},
	}
}

func optimizeTestServer(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/basket/optimize":
			atomic.AddInt64(calls, 1)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"address":     map[string]interface{}{"id": 7, "summary": "12 Beach Road, Visakhapatnam", "lat": 17.7, "long": 83.3},
				"items_count": 2,
				"result":      planFixture(),
				"notes":       "Pricing: ₹5/km + ₹5/kg. ETA tie-break when costs are equal. Approved marts & in-stock only.",
			})
		case "/api/v1/products/1":
			json.NewEncoder(w).Encode(map[string]interface{}{"product_id": 1, "price": 335.0})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	}))
}

func newTestOptimizer(baseURL string) (*Optimizer, *Cart) {
	store := NewSessionStore()
	return NewOptimizer(NewAPI(baseURL, store)), NewCart(store)
}

func TestOptimizeEmptyCartShortCircuits(t *testing.T) {
	var calls int64
	srv := optimizeTestServer(t, &calls)
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	plan, err := o.Optimize(context.Background(), cart)
	if err != nil {
		t.Fatal(err)
	}
	if plan != nil {
		t.Error("empty cart produced a plan")
	}
	if atomic.LoadInt64(&calls) != 0 {
		t.Error("empty cart hit the network")
	}
	if got, _ := o.Plan(); got != nil {
		t.Error("empty cart left a stored plan")
	}
}

func TestOptimizeStoresPlanWithFingerprint(t *testing.T) {
	var calls int64
	srv := optimizeTestServer(t, &calls)
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	cart.Add(1, 1)
	cart.Add(2, 1)

	plan, err := o.Optimize(context.Background(), cart)
	if err != nil {
		t.Fatal(err)
	}
	if plan == nil || plan.GrandTotal != 381 {
		t.Fatalf("plan = %+v, want fixture", plan)
	}

	stored, fingerprint := o.Plan()
	if stored == nil {
		t.Fatal("plan not stored")
	}
	if fingerprint != cart.Fingerprint() {
		t.Error("stored fingerprint does not match the cart it was computed from")
	}
}

func TestOptimizeAbortLeavesNoError(t *testing.T) {
	var calls int64
	srv := optimizeTestServer(t, &calls)
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	cart.Add(1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Optimize(ctx, cart); err == nil {
		t.Fatal("expected the cancelled request to return an error to its caller")
	}
	if o.Err() != nil {
		t.Errorf("aborted request set error state: %v", o.Err())
	}
	if plan, _ := o.Plan(); plan != nil {
		t.Error("aborted request left a plan")
	}
}

func TestOptimizeSupersededRequestKeepsNewerPlan(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	stale := planFixture()
	stale.GrandTotal = 999

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/basket/optimize" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req struct {
			Items []models.BasketItem `json:"items"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Items) == 2 {
			// The first request: hold it until the second has finished.
			close(started)
			<-release
			json.NewEncoder(w).Encode(map[string]interface{}{"result": stale})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"result": planFixture()})
	}))
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	cart.Add(1, 1)
	cart.Add(2, 1)

	firstDone := make(chan error, 1)
	go func() {
		_, err := o.Optimize(context.Background(), cart)
		firstDone <- err
	}()
	<-started

	cart.Remove(2)
	if _, err := o.Optimize(context.Background(), cart); err != nil {
		t.Fatal(err)
	}
	close(release)

	if err := <-firstDone; err == nil {
		t.Error("superseded request reported success to its caller")
	}
	plan, fingerprint := o.Plan()
	if plan == nil || plan.GrandTotal != 381 {
		t.Fatalf("plan = %+v, want the newer request's plan kept", plan)
	}
	if fingerprint != cart.Fingerprint() {
		t.Error("stored fingerprint does not match the winning cart")
	}
	if o.Err() != nil {
		t.Errorf("supersession recorded an error: %v", o.Err())
	}
}

func TestOptimizeRealFailureSetsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "no approved marts available for these items"})
	}))
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	cart.Add(1, 1)

	_, err := o.Optimize(context.Background(), cart)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "no approved marts available for these items" {
		t.Errorf("error = %q, want the backend payload surfaced verbatim", err.Error())
	}
	if o.Err() == nil {
		t.Error("real failure did not set error state")
	}
}

func TestOptimizeEnrichment(t *testing.T) {
	var calls int64
	srv := optimizeTestServer(t, &calls)
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)
	cart.Add(1, 1)
	cart.Add(2, 1)

	if _, err := o.Optimize(context.Background(), cart); err != nil {
		t.Fatal(err)
	}

	prices := o.Prices()
	if prices[1].State != EnrichPending || prices[2].State != EnrichPending {
		t.Fatalf("prices = %+v, want all pending before enrichment", prices)
	}

	o.EnrichPrices(context.Background())
	prices = o.Prices()
	if prices[1].State != EnrichPresent || prices[1].OriginalPrice != 335.0 {
		t.Errorf("product 1 = %+v, want present at 335", prices[1])
	}
	if prices[2].State != EnrichUnavailable {
		t.Errorf("product 2 = %+v, want unavailable (fetch 404s)", prices[2])
	}
}

func TestOptimizeConfirmAndDiscard(t *testing.T) {
	var calls int64
	srv := optimizeTestServer(t, &calls)
	defer srv.Close()

	o, cart := newTestOptimizer(srv.URL)

	if _, err := o.Confirm(); err != ErrNoPlan {
		t.Errorf("Confirm with no plan = %v, want ErrNoPlan", err)
	}

	cart.Add(1, 1)
	if _, err := o.Optimize(context.Background(), cart); err != nil {
		t.Fatal(err)
	}

	confirmed, err := o.Confirm()
	if err != nil {
		t.Fatal(err)
	}
	if confirmed.Fingerprint != cart.Fingerprint() {
		t.Error("confirmed plan carries the wrong fingerprint")
	}

	o.Discard()
	if plan, _ := o.Plan(); plan != nil {
		t.Error("Discard kept the plan")
	}
}
