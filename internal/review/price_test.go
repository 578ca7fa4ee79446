package review

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		price string
		want  float64
	}{
		{"$45.99", 45.99},
		{"€12.50", 12.50},
		{"12.50", 12.50},
		{"1,250.00", 1250},
		{"about 30 dollars", 30},
		{"", 0},
		{"unknown", 0},
		{"12.50.99", 0},
		{"£0.99", 0.99},
	}

	for _, tt := range tests {
		if got := ParsePrice(tt.price); got != tt.want {
			t.Errorf("ParsePrice(%q) = %f, want %f", tt.price, got, tt.want)
		}
	}
}
