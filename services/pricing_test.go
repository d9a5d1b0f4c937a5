package services

import (
	"math"
	"testing"
)

func TestETAMinutes(t *testing.T) {
	cases := []struct {
		distanceKm float64
		want       int
	}{
		{0, 0},
		{1, 3},
		{10, 30},
		{0.5, 2},  // 1.5 min rounds up
		{7.3, 22}, // 21.9 min rounds up
	}
	for _, tc := range cases {
		if got := ETAMinutes(tc.distanceKm); got != tc.want {
			t.Errorf("ETAMinutes(%v) = %d, want %d", tc.distanceKm, got, tc.want)
		}
	}
}

func TestDeliveryCharge(t *testing.T) {
	cases := []struct {
		distanceKm float64
		weightKg   float64
		want       int
	}{
		{2, 3, 25},    // 10 + 15
		{1.2, 0.5, 9}, // 6 + 2.5 = 8.5, ceil
		{0, 0, 0},
		{-1, -1, 0},   // negative inputs clamp to zero
		{0.1, 0.1, 1}, // 1.0 exactly
	}
	for _, tc := range cases {
		if got := DeliveryCharge(tc.distanceKm, tc.weightKg); got != tc.want {
			t.Errorf("DeliveryCharge(%v, %v) = %d, want %d", tc.distanceKm, tc.weightKg, got, tc.want)
		}
	}
}

func TestDistanceKm(t *testing.T) {
	if got := DistanceKm(17.7, 83.3, 17.7, 83.3); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}

	// One degree of longitude at the equator is about 111.2 km.
	got := DistanceKm(0, 0, 0, 1)
	if math.Abs(got-111.19) > 0.1 {
		t.Errorf("DistanceKm(0,0,0,1) = %v, want about 111.19", got)
	}

	// Symmetry.
	a := DistanceKm(17.72, 83.30, 17.74, 83.32)
	b := DistanceKm(17.74, 83.32, 17.72, 83.30)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestLinePrice(t *testing.T) {
	if got := LinePrice(10.555, 2); got != 21.11 {
		t.Errorf("LinePrice(10.555, 2) = %v, want 21.11", got)
	}
	if got := LinePrice(49.99, 3); got != 149.97 {
		t.Errorf("LinePrice(49.99, 3) = %v, want 149.97", got)
	}
	if got := LinePrice(0.1, 3); got != 0.3 {
		t.Errorf("LinePrice(0.1, 3) = %v, want 0.3", got)
	}
}

func TestRounding(t *testing.T) {
	if got := Round2(1.005); got != 1.01 {
		t.Errorf("Round2(1.005) = %v, want 1.01", got)
	}
	if got := Round3(1.23456); got != 1.235 {
		t.Errorf("Round3(1.23456) = %v, want 1.235", got)
	}
}
