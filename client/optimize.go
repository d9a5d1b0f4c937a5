package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
)

// ErrNoPlan is returned when Confirm is called with nothing to confirm.
var ErrNoPlan = errors.New("no optimization plan to confirm")

// Enrichment states for a product's original price.
type EnrichState int

const (
	EnrichPending EnrichState = iota
	EnrichUnavailable
	EnrichPresent
)

// PriceInfo is the per-product enrichment attached to a plan: the catalog
// price of the exact product the shopper originally picked, for showing
// what a swap saved.
type PriceInfo struct {
	State         EnrichState
	OriginalPrice float64
}

// ConfirmedPlan is what the checkout consumes: the plan plus the cart
// fingerprint it was computed from.
type ConfirmedPlan struct {
	Plan        *models.OptimizationPlan
	Fingerprint string
}

// Optimizer drives basket optimization requests. At most one request is in
// flight; starting a new one cancels the previous, and a cancelled request
// never leaves an error behind.
type Optimizer struct {
	api *API

	mu          sync.Mutex
	cancel      context.CancelFunc
	plan        *models.OptimizationPlan
	fingerprint string
	lastErr     error
	prices      map[int]PriceInfo
}

func NewOptimizer(api *API) *Optimizer {
	return &Optimizer{api: api}
}

// Optimize submits the cart for optimization. Zero and invalid lines are
// dropped first; an empty normalized cart short-circuits without touching
// the network and clears any previous plan.
func (o *Optimizer) Optimize(ctx context.Context, cart *Cart) (*models.OptimizationPlan, error) {
	items := normalizeItems(cart.Items())
	fingerprint := cart.Fingerprint()

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	if len(items) == 0 {
		o.cancel = nil
		o.plan = nil
		o.fingerprint = ""
		o.lastErr = nil
		o.prices = nil
		o.mu.Unlock()
		return nil, nil
	}
	reqCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.mu.Unlock()

	var resp struct {
		Result models.OptimizationPlan `json:"result"`
	}
	err := o.api.Post(reqCtx, "/api/v1/basket/optimize", map[string]interface{}{
		"items":       items,
		"allow_swaps": true,
	}, &resp)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		// A superseded or aborted request is not a failure: leave the
		// previous state untouched.
		if errors.Is(err, context.Canceled) || reqCtx.Err() != nil {
			return nil, err
		}
		o.lastErr = err
		return nil, err
	}
	if reqCtx.Err() != nil {
		// The response landed but a newer request superseded this one
		// before we re-acquired the lock. Its plan owns the state.
		return nil, reqCtx.Err()
	}

	plan := resp.Result
	o.plan = &plan
	o.fingerprint = fingerprint
	o.lastErr = nil
	o.prices = pendingPrices(&plan)
	return &plan, nil
}

// Abort cancels any in-flight request without recording an error.
func (o *Optimizer) Abort() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Plan returns the current plan and the fingerprint it belongs to.
func (o *Optimizer) Plan() (*models.OptimizationPlan, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plan, o.fingerprint
}

// Err returns the last real failure. Aborted requests never show up here.
func (o *Optimizer) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Prices returns the enrichment state per plan product.
func (o *Optimizer) Prices() map[int]PriceInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[int]PriceInfo, len(o.prices))
	for k, v := range o.prices {
		out[k] = v
	}
	return out
}

// EnrichPrices fetches the catalog price of each plan product, best-effort.
// A failed fetch marks that product unavailable and moves on.
func (o *Optimizer) EnrichPrices(ctx context.Context) {
	o.mu.Lock()
	plan := o.plan
	o.mu.Unlock()
	if plan == nil {
		return
	}

	for _, mart := range plan.Marts {
		for _, item := range mart.Items {
			var product struct {
				Price float64 `json:"price"`
			}
			info := PriceInfo{State: EnrichUnavailable}
			if err := o.api.Get(ctx, fmt.Sprintf("/api/v1/products/%d", item.ProductID), &product); err == nil {
				info = PriceInfo{State: EnrichPresent, OriginalPrice: product.Price}
			}

			o.mu.Lock()
			// The plan may have been replaced while we were fetching.
			if o.plan == plan && o.prices != nil {
				o.prices[item.ProductID] = info
			}
			o.mu.Unlock()
		}
	}
}

// Confirm hands the current plan to checkout. The plan stays held so the
// shopper can still go back.
func (o *Optimizer) Confirm() (*ConfirmedPlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.plan == nil {
		return nil, ErrNoPlan
	}
	return &ConfirmedPlan{Plan: o.plan, Fingerprint: o.fingerprint}, nil
}

// Discard drops the current plan and enrichment.
func (o *Optimizer) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.plan = nil
	o.fingerprint = ""
	o.prices = nil
	o.lastErr = nil
}

func normalizeItems(items []CartItem) []models.BasketItem {
	out := make([]models.BasketItem, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			continue
		}
		out = append(out, models.BasketItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

func pendingPrices(plan *models.OptimizationPlan) map[int]PriceInfo {
	prices := make(map[int]PriceInfo)
	for _, mart := range plan.Marts {
		for _, item := range mart.Items {
			prices[item.ProductID] = PriceInfo{State: EnrichPending}
		}
	}
	return prices
}
