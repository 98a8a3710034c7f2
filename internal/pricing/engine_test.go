package pricing

import "testing"

func TestComputeWithDiscountAndShipping(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: 2500},
		{Qty: 1, UnitPrice: 5000},
	}
	summary := Compute(items, 10, 1990)
	if summary.Subtotal != 10000 {
		t.Fatalf("expected subtotal 10000, got %d", summary.Subtotal)
	}
	if summary.Discount != 1000 {
		t.Fatalf("expected discount 1000, got %d", summary.Discount)
	}
	if summary.Total != 10990 {
		t.Fatalf("expected total 10990, got %d", summary.Total)
	}
}

func TestComputeIgnoresInvalidLines(t *testing.T) {
	items := []Item{
		{Qty: 0, UnitPrice: 1000},
		{Qty: -1, UnitPrice: 1000},
		{Qty: 3, UnitPrice: 200},
	}
	summary := Compute(items, 0, 0)
	if summary.Subtotal != 600 {
		t.Fatalf("expected subtotal 600, got %d", summary.Subtotal)
	}
	if summary.Total != 600 {
		t.Fatalf("expected total 600, got %d", summary.Total)
	}
}

func TestComputeClampsDiscount(t *testing.T) {
	summary := Compute([]Item{{Qty: 1, UnitPrice: 100}}, 250, 0)
	if summary.Discount != 100 {
		t.Fatalf("expected discount clamped to subtotal, got %d", summary.Discount)
	}
	if summary.Total != 0 {
		t.Fatalf("expected total 0, got %d", summary.Total)
	}
}

func TestParseCents(t *testing.T) {
	cases := []struct {
		in   string
		want Cents
	}{
		{"19.90", 1990},
		{"189.9", 18990},
		{"1", 100},
		{"0.05", 5},
		{"-2.50", -250},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: expected %d, got %d", tc.in, tc.want, got)
		}
	}
	if _, err := ParseCents("1.999"); err == nil {
		t.Fatal("expected error for three fraction digits")
	}
}

func TestCentsString(t *testing.T) {
	if got := Cents(4282).String(); got != "42.82" {
		t.Fatalf("expected 42.82, got %s", got)
	}
	if got := Cents(-5).String(); got != "-0.05" {
		t.Fatalf("expected -0.05, got %s", got)
	}
}
