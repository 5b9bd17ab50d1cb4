package service

import (
	"testing"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/models"
)

func TestPricingForKnownTiers(t *testing.T) {
	cases := map[string]string{
		"Books":    "5.99",
		"Lunch":    "4.99",
		"Full Bag": "8.99",
		"full bag": "8.99",
	}
	for boxType, price := range cases {
		tier := PricingFor(boxType)
		if !tier.Price.Equal(models.MustMoney(price)) {
			t.Fatalf("%s: got %s want %s", boxType, tier.Price, price)
		}
	}
}

func TestPricingForFallsBackToBooks(t *testing.T) {
	for _, boxType := range []string{"", "  ", "Piano", "lunch", "FULL BAG", " Lunch"} {
		tier := PricingFor(boxType)
		if tier.BoxType != constants.BoxTypeBooks {
			t.Fatalf("%q: expected Books fallback, got %s", boxType, tier.BoxType)
		}
		if IsKnownBoxType(boxType) {
			t.Fatalf("%q: should not be a known box type", boxType)
		}
	}
}

func TestQuoteForFixedModeKeepsLiteralTotal(t *testing.T) {
	for _, boxType := range []string{"Books", "Lunch", "Full Bag"} {
		quote := QuoteFor(boxType, constants.PricingTotalModeFixed)
		if quote.DisplayTotal != "$11.97" {
			t.Fatalf("%s: expected $11.97, got %s", boxType, quote.DisplayTotal)
		}
		if quote.TotalMode != constants.PricingTotalModeFixed {
			t.Fatalf("unexpected mode %s", quote.TotalMode)
		}
	}
	// 未知模式按 fixed 处理
	if got := QuoteFor("Lunch", "whatever").TotalMode; got != constants.PricingTotalModeFixed {
		t.Fatalf("expected fixed fallback, got %s", got)
	}
}

func TestQuoteForItemizedModeSumsFees(t *testing.T) {
	cases := map[string]string{
		"Books":    "10.97",
		"Lunch":    "9.97",
		"Full Bag": "13.97",
	}
	for boxType, total := range cases {
		quote := QuoteFor(boxType, constants.PricingTotalModeItemized)
		if !quote.Total.Equal(models.MustMoney(total)) {
			t.Fatalf("%s: got %s want %s", boxType, quote.Total, total)
		}
		if !quote.ItemizedSum.Equal(quote.Total) {
			t.Fatalf("%s: itemized sum should equal total", boxType)
		}
	}
	fixed := QuoteFor("Lunch", constants.PricingTotalModeFixed)
	if !fixed.ItemizedSum.Equal(models.MustMoney("9.97")) {
		t.Fatalf("fixed mode should still report itemized sum, got %s", fixed.ItemizedSum)
	}
}
