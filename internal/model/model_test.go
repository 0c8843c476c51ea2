package model

import "testing"

func TestCartTotalPrice(t *testing.T) {
	tests := []struct {
		name  string
		items []CartLine
		want  float64
	}{
		{
			name: "empty cart",
			want: 0,
		},
		{
			name: "single service",
			items: []CartLine{
				{ItemID: "svc_oil_change", Price: 2500, Quantity: 1},
			},
			want: 2500,
		},
		{
			name: "mixed lines",
			items: []CartLine{
				{ItemID: "svc_oil_change", Price: 2500, Quantity: 1},
				{ItemID: "prod_oil_filter", Price: 1000, Quantity: 3},
				{ItemID: "svc_diagnostics", Price: 1500, Quantity: 2},
			},
			want: 8500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cart{Items: tt.items}
			if got := c.TotalPrice(); got != tt.want {
				t.Fatalf("TotalPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}
