package geo

import (
	"math"
	"testing"
)

func TestDistance_KnownPoints(t *testing.T) {
	// Lisbon to Porto is roughly 274 km as the crow flies.
	lisbon := Point{Lat: 38.7223, Lng: -9.1393}
	porto := Point{Lat: 41.1579, Lng: -8.6291}

	d := Distance(lisbon, porto)
	if d < 265 || d > 285 {
		t.Fatalf("expected Lisbon-Porto distance around 274 km, got %.1f", d)
	}
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 39.74, Lng: -8.77}
	if d := Distance(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: 39.74051727562952, Lng: -8.770375324893696}
	b := Point{Lat: 39.07753883078113, Lng: -9.281266331143293}

	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", d1, d2)
	}
}

func TestDistance_Ordering(t *testing.T) {
	// A query point near Lisbon is closer to Torres Vedras than to Leiria.
	query := Point{Lat: 38.720661384644046, Lng: -9.16044783453807}
	leiria := Point{Lat: 39.74051727562952, Lng: -8.770375324893696}
	torresVedras := Point{Lat: 39.07753883078113, Lng: -9.281266331143293}

	if Distance(query, torresVedras) >= Distance(query, leiria) {
		t.Fatal("expected Torres Vedras to be closer to the query point than Leiria")
	}
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"valid", Point{Lat: 38.7, Lng: -9.1}, true},
		{"lat too high", Point{Lat: 90.1, Lng: 0}, false},
		{"lat too low", Point{Lat: -90.1, Lng: 0}, false},
		{"lng too high", Point{Lat: 0, Lng: 180.1}, false},
		{"lng too low", Point{Lat: 0, Lng: -180.1}, false},
		{"boundary", Point{Lat: 90, Lng: -180}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
