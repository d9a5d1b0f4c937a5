package services

import (
	"errors"
	"math"
	"testing"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
)

// Two approved marts near the delivery point, one farther away. Mart 1
// carries Rice and Milk, mart 2 carries a cheaper Rice.
func testCatalog() []OptimizerProduct {
	return []OptimizerProduct{
		{ProductID: 1, MartID: 1, MartName: "FreshMart", MartLat: 17.71, MartLong: 83.31, MartApproved: true,
			Name: "Rice 5kg", Price: 320, Stock: 10, UnitWeightKg: 5},
		{ProductID: 2, MartID: 1, MartName: "FreshMart", MartLat: 17.71, MartLong: 83.31, MartApproved: true,
			Name: "Milk 1L", Price: 28, Stock: 50, UnitWeightKg: 1.05},
		{ProductID: 3, MartID: 2, MartName: "ValueBazaar", MartLat: 17.75, MartLong: 83.35, MartApproved: true,
			Name: "Rice 5kg", Price: 290, Stock: 4, UnitWeightKg: 5},
		{ProductID: 4, MartID: 3, MartName: "Unlisted", MartLat: 17.70, MartLong: 83.30, MartApproved: false,
			Name: "Milk 1L", Price: 20, Stock: 50, UnitWeightKg: 1.05},
	}
}

const (
	addrLat  = 17.70
	addrLong = 83.30
)

func TestOptimizeUnknownProducts(t *testing.T) {
	_, err := Optimize(OptimizeRequest{
		Items:   []models.BasketItem{{ProductID: 99, Quantity: 1}},
		AddrLat: addrLat, AddrLong: addrLong,
	}, testCatalog())
	if !errors.Is(err, ErrNoValidProducts) {
		t.Fatalf("err = %v, want ErrNoValidProducts", err)
	}
}

func TestOptimizeOutOfStockWithoutSwaps(t *testing.T) {
	catalog := testCatalog()
	catalog[0].Stock = 0
	_, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 1, Quantity: 1}},
		AllowSwaps: false,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, catalog)
	if !errors.Is(err, ErrNoPurchasable) {
		t.Fatalf("err = %v, want ErrNoPurchasable", err)
	}
}

func TestOptimizeTotalsArithmetic(t *testing.T) {
	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 3}},
		AllowSwaps: false,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Marts) != 1 {
		t.Fatalf("marts = %d, want 1", len(plan.Marts))
	}

	mart := plan.Marts[0]
	if mart.MartID != 1 {
		t.Errorf("mart_id = %d, want 1", mart.MartID)
	}

	itemsPrice := 0.0
	for _, item := range mart.Items {
		want := LinePrice(item.UnitPrice, item.Qty)
		if item.LinePrice != want {
			t.Errorf("line_price for product %d = %v, want %v", item.ProductID, item.LinePrice, want)
		}
		itemsPrice += item.LinePrice
	}
	if plan.ItemsPrice != Round2(itemsPrice) {
		t.Errorf("items_price = %v, want %v", plan.ItemsPrice, Round2(itemsPrice))
	}
	if plan.GrandTotal != Round2(plan.ItemsPrice+float64(plan.DeliveryTotal)) {
		t.Errorf("grand_total = %v, want items %v + delivery %d", plan.GrandTotal, plan.ItemsPrice, plan.DeliveryTotal)
	}
	if plan.EtaTotalMin != mart.EtaMin {
		t.Errorf("eta_total = %d, want %d", plan.EtaTotalMin, mart.EtaMin)
	}

	// 2 x 5kg rice + 3 x 1.05kg milk
	wantWeight := Round3(2*5 + 3*1.05)
	if mart.WeightKg != wantWeight {
		t.Errorf("weight = %v, want %v", mart.WeightKg, wantWeight)
	}

	dist := DistanceKm(addrLat, addrLong, 17.71, 83.31)
	if mart.DeliveryCharge != DeliveryCharge(dist, 2*5+3*1.05) {
		t.Errorf("delivery_charge = %d, want %d", mart.DeliveryCharge, DeliveryCharge(dist, 2*5+3*1.05))
	}
	if math.Abs(mart.DistanceKm-Round3(dist)) > 1e-9 {
		t.Errorf("distance = %v, want %v", mart.DistanceKm, Round3(dist))
	}
}

func TestOptimizeSwapPicksCheaperVariantWhenWorthIt(t *testing.T) {
	// Put the cheaper rice mart right next to the delivery point so the
	// saving clearly beats any delivery delta.
	catalog := testCatalog()
	catalog[2].MartLat = 17.701
	catalog[2].MartLong = 83.301

	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 1, Quantity: 1}},
		AllowSwaps: true,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Marts) != 1 {
		t.Fatalf("marts = %d, want 1", len(plan.Marts))
	}
	if plan.Marts[0].MartID != 2 {
		t.Errorf("mart_id = %d, want the cheaper variant's mart 2", plan.Marts[0].MartID)
	}
	if plan.Marts[0].Items[0].UnitPrice != 290 {
		t.Errorf("unit_price = %v, want 290", plan.Marts[0].Items[0].UnitPrice)
	}
}

func TestOptimizeSwapSkipsUnapprovedMart(t *testing.T) {
	// The unapproved mart has the cheapest milk; it must never be chosen.
	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 2, Quantity: 1}},
		AllowSwaps: true,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	for _, mart := range plan.Marts {
		if mart.MartID == 3 {
			t.Fatal("plan assigned an item to an unapproved mart")
		}
	}
}

func TestOptimizeOutOfStockSwapsToVariant(t *testing.T) {
	catalog := testCatalog()
	catalog[0].Stock = 0 // FreshMart rice gone

	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 1, Quantity: 1}},
		AllowSwaps: true,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Marts[0].MartID != 2 {
		t.Errorf("mart_id = %d, want fallback mart 2", plan.Marts[0].MartID)
	}
}

func TestOptimizeWeightOverride(t *testing.T) {
	override := 2.5
	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 1, Quantity: 2, WeightKg: &override}},
		AllowSwaps: false,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if got := plan.Marts[0].WeightKg; got != 5.0 {
		t.Errorf("weight = %v, want 5.0 from the 2.5kg override", got)
	}
}

func TestOptimizeDefaultWeight(t *testing.T) {
	catalog := testCatalog()
	catalog[1].UnitWeightKg = 0 // no catalog weight for milk

	plan, err := Optimize(OptimizeRequest{
		Items:      []models.BasketItem{{ProductID: 2, Quantity: 3}},
		AllowSwaps: false,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, catalog)
	if err != nil {
		t.Fatal(err)
	}
	if got := plan.Marts[0].WeightKg; got != 3.0 {
		t.Errorf("weight = %v, want 3.0 from the 1kg default", got)
	}
}

func TestOptimizeMartsSortedByID(t *testing.T) {
	plan, err := Optimize(OptimizeRequest{
		Items: []models.BasketItem{
			{ProductID: 2, Quantity: 1}, // only at mart 1
			{ProductID: 3, Quantity: 1}, // only at mart 2
		},
		AllowSwaps: false,
		AddrLat:    addrLat, AddrLong: addrLong,
	}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Marts) != 2 {
		t.Fatalf("marts = %d, want 2", len(plan.Marts))
	}
	if plan.Marts[0].MartID > plan.Marts[1].MartID {
		t.Errorf("marts out of order: %d before %d", plan.Marts[0].MartID, plan.Marts[1].MartID)
	}
}
