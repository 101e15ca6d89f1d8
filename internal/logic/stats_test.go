package logic

import "testing"

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "Empty", values: nil, want: 0},
		{name: "Single", values: []float64{42}, want: 42},
		{name: "Odd", values: []float64{9, 1, 5}, want: 5},
		{name: "Even", values: []float64{125.5, 89.0}, want: 107.25},
		{name: "Even unsorted", values: []float64{4, 1, 3, 2}, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input modified: %v", values)
	}
}

func TestRoundingHelpers(t *testing.T) {
	if got := round2(66.666666); got != 66.67 {
		t.Errorf("round2(66.666666) = %v, want 66.67", got)
	}
	if got := hitRate(2, 3); got != 66.67 {
		t.Errorf("hitRate(2, 3) = %v, want 66.67", got)
	}
	if got := hitRate(0, 0); got != 0 {
		t.Errorf("hitRate(0, 0) = %v, want 0", got)
	}
}

func TestWithinBand(t *testing.T) {
	tests := []struct {
		line, avg, band float64
		want            bool
	}{
		{line: 100, avg: 100, band: 0.25, want: true},
		{line: 75, avg: 100, band: 0.25, want: true},
		{line: 125, avg: 100, band: 0.25, want: true},
		{line: 74.5, avg: 100, band: 0.25, want: false},
		{line: 125.5, avg: 100, band: 0.25, want: false},
		{line: 0.5, avg: 0, band: 0.25, want: false},
	}
	for _, tt := range tests {
		if got := withinBand(tt.line, tt.avg, tt.band); got != tt.want {
			t.Errorf("withinBand(%v, %v, %v) = %v, want %v", tt.line, tt.avg, tt.band, got, tt.want)
		}
	}
}
