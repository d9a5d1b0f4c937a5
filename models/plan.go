package models

// BasketItem is one cart line as submitted to the optimizer and the order
// endpoints.
type BasketItem struct {
	ProductID int      `json:"product_id"`
	Quantity  int      `json:"quantity"`
	WeightKg  *float64 `json:"weight_kg,omitempty"`
}

// PlanMartItem is a single line of a mart's share of an optimization plan.
// line_price is always unit_price * qty.
type PlanMartItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LinePrice float64 `json:"line_price"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// PlanMart groups the plan lines fulfilled by one mart, with that mart's
// delivery economics.
type PlanMart struct {
	MartID         int            `json:"mart_id"`
	MartName       string         `json:"mart_name"`
	DistanceKm     float64        `json:"distance_km"`
	EtaMin         int            `json:"eta_min"`
	WeightKg       float64        `json:"weight_kg"`
	DeliveryCharge int            `json:"delivery_charge"`
	Items          []PlanMartItem `json:"items"`
}

// OptimizationPlan is the multi-store fulfillment plan computed for a basket.
// Immutable once produced; consumers only read it.
type OptimizationPlan struct {
	ItemsPrice    float64    `json:"items_price"`
	DeliveryTotal int        `json:"delivery_total"`
	GrandTotal    float64    `json:"grand_total"`
	EtaTotalMin   int        `json:"eta_total_min"`
	Marts         []PlanMart `json:"marts"`
}
