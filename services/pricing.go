package services

import (
	"math"

	"github.com/shopspring/decimal"
)

// Delivery pricing rule: 5 per km + 5 per kg, no base charge, rounded up to
// the next whole rupee.
const (
	perKmRate = 5.0
	perKgRate = 5.0
)

// Couriers average 20 km/h in city traffic, so 3 minutes per km.
const courierSpeedKmh = 20.0

const earthRadiusKm = 6371.0088

// DistanceKm computes the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ETAMinutes converts a distance into an estimated delivery time.
func ETAMinutes(distanceKm float64) int {
	return int(math.Ceil(distanceKm / courierSpeedKmh * 60.0))
}

// DeliveryCharge prices a single-mart delivery from its distance and the
// total shipped weight.
func DeliveryCharge(distanceKm, totalWeightKg float64) int {
	dist := decimal.NewFromFloat(math.Max(0, distanceKm))
	weight := decimal.NewFromFloat(math.Max(0, totalWeightKg))
	charge := dist.Mul(decimal.NewFromFloat(perKmRate)).
		Add(weight.Mul(decimal.NewFromFloat(perKgRate)))
	return int(charge.Ceil().IntPart())
}

// Round2 rounds a money amount to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round3 rounds to three decimal places, used for distances and weights.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

// LinePrice is unit price times quantity, rounded to two decimal places.
func LinePrice(unitPrice float64, qty int) float64 {
	f, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).Float64()
	return f
}
