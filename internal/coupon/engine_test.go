package coupon

import "testing"

func TestApplyKnownCode(t *testing.T) {
	res := Apply("  shalom10 ")
	if !res.Applied {
		t.Fatal("expected coupon to apply")
	}
	if res.Percent != 10 {
		t.Fatalf("expected 10 percent, got %d", res.Percent)
	}
}

func TestApplyUnknownCodeResetsDiscount(t *testing.T) {
	res := Apply("NOPE")
	if res.Applied {
		t.Fatal("unknown code must not apply")
	}
	if res.Percent != 0 {
		t.Fatalf("expected 0 percent, got %d", res.Percent)
	}
	if res.Message != "" {
		t.Fatalf("unexpected message: %s", res.Message)
	}
}

func TestApplyDisabledFreeShipping(t *testing.T) {
	res := Apply("fretegratis")
	if res.Applied {
		t.Fatal("disabled code must not apply")
	}
	if !res.Disabled {
		t.Fatal("expected disabled flag")
	}
	if res.Percent != 0 {
		t.Fatalf("expected 0 percent, got %d", res.Percent)
	}
	if res.Message == "" {
		t.Fatal("expected maintenance message")
	}
}
