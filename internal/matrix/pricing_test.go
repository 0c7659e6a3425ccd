package matrix

import (
	"testing"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

func TestMoneyHelpers(t *testing.T) {
	if got := Cents(9.99); got != 999 {
		t.Fatalf("Cents(9.99)=%d, want 999", got)
	}
	if got := Cents(52.99); got != 5299 {
		t.Fatalf("Cents(52.99)=%d, want 5299", got)
	}
	if got := Euros(7500); got != 75 {
		t.Fatalf("Euros(7500)=%v, want 75", got)
	}
	if got := FormatEuros(999); got != "9.99 €" {
		t.Fatalf("FormatEuros(999)=%q", got)
	}
}

func TestFlexDiscountCents(t *testing.T) {
	cases := []struct {
		qty  int
		want int64
	}{
		{qty: 0, want: 0},
		{qty: 1, want: 0},
		{qty: 2, want: 500},
		{qty: 5, want: 2000},
		{qty: 6, want: 2500},
	}
	for _, tc := range cases {
		if got := FlexDiscountCents(tc.qty); got != tc.want {
			t.Fatalf("FlexDiscountCents(%d)=%d, want %d", tc.qty, got, tc.want)
		}
	}
}

// Pack at 50/60 plus two Flex mobiles at 10/10 each: one discount step
// of 5 comes off both years.
func TestComputeTotalsPackWithTwoFlex(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st = mustApplySingle(t, snap, st, "pack_type", chPackGo)
	st = st.SetQuantity(snap, chFlex20, 2)

	totals := ComputeTotals(st, snap)
	if totals.Y1 != 6500 {
		t.Fatalf("Y1=%d, want 6500", totals.Y1)
	}
	if totals.Y2 != 7500 {
		t.Fatalf("Y2=%d, want 7500", totals.Y2)
	}
	if totals.FlexQty != 2 || totals.Discount != 500 {
		t.Fatalf("FlexQty=%d Discount=%d, want 2/500", totals.FlexQty, totals.Discount)
	}
}

func TestComputeTotalsChildBilledAtParentPrice(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st.Single["promotions"] = chGiftJBL

	totals := ComputeTotals(st, snap)
	if totals.Y1 != 500 || totals.Y2 != 500 {
		t.Fatalf("gift child must price at parent 5/5, got %d/%d", totals.Y1, totals.Y2)
	}
}

func TestComputeTotalsQtyWinsOverPlain(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st.Single["gsm_flex_main"] = chFlex20
	st.Qty[chFlex20] = 3

	totals := ComputeTotals(st, snap)
	// 3 × 10 minus the (3-1)×5 discount, never 4 units.
	if totals.Y1 != 2000 {
		t.Fatalf("Y1=%d, want 2000", totals.Y1)
	}
	if totals.FlexQty != 3 {
		t.Fatalf("FlexQty=%d, want 3", totals.FlexQty)
	}
}

func TestComputeTotalsOptAndSoloNoDiscount(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st = st.SetQuantity(snap, chOptData, 3)
	st = st.SetQuantity(snap, chSolo20, 2)

	totals := ComputeTotals(st, snap)
	if totals.Discount != 0 || totals.FlexQty != 0 {
		t.Fatalf("Opt and Solo must not feed the discount: %+v", totals)
	}
	want := Cents(5)*3 + Cents(18.15)*2
	if totals.Y1 != want {
		t.Fatalf("Y1=%d, want %d", totals.Y1, want)
	}
}

func TestComputeTotalsClampAtZero(t *testing.T) {
	sections := []types.Section{
		{ID: 1, Key: "gsm_flex_main", Title: "GSM Flex", Type: types.SectionSingle, SortOrder: 1, Active: true, Choices: []types.Choice{
			{ID: 1, SectionID: 1, Key: "gsm_flex_promo", Label: "GSM Flex Promo", PriceY1: 1, PriceY2: 1, SortOrder: 1, Active: true},
		}},
	}
	snap := NewSnapshot(sections, nil, nil)
	st := NewSelectionState().SetQuantity(snap, 1, 3)

	totals := ComputeTotals(st, snap)
	if totals.Y1 != 0 || totals.Y2 != 0 {
		t.Fatalf("totals must clamp at zero, got %d/%d", totals.Y1, totals.Y2)
	}
}

func TestComputeTotalsEmptySelection(t *testing.T) {
	snap := newTestSnapshot()
	totals := ComputeTotals(NewSelectionState(), snap)
	if totals.Y1 != 0 || totals.Y2 != 0 || totals.Discount != 0 {
		t.Fatalf("empty selection must total zero: %+v", totals)
	}
}

func TestLineItemsOrderAndDiscountAttribution(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st = mustApplySingle(t, snap, st, "pack_type", chPackGo)
	st = st.SetQuantity(snap, chFlex20, 2)
	st = st.SetQuantity(snap, chFlex10, 2)
	st = st.SetQuantity(snap, chSolo20, 1)

	items := LineItems(st, snap)
	if len(items) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(items))
	}
	// Display order follows section sort order.
	if items[0].ChoiceID != chPackGo || items[1].ChoiceID != chFlex20 ||
		items[2].ChoiceID != chFlex10 || items[3].ChoiceID != chSolo20 {
		t.Fatalf("unexpected order: %+v", items)
	}

	// Four Flex units: 15 in discount, all on the last Flex line.
	if items[1].Y1 != 2000 {
		t.Fatalf("first flex line must be gross, got %d", items[1].Y1)
	}
	if items[2].Y1 != 2*Cents(9.99)-1500 {
		t.Fatalf("last flex line must carry the full discount, got %d", items[2].Y1)
	}
	if items[3].Y1 != Cents(18.15) {
		t.Fatalf("solo line untouched, got %d", items[3].Y1)
	}

	var sum int64
	for _, it := range items {
		sum += it.Y1
	}
	if totals := ComputeTotals(st, snap); sum != totals.Y1 {
		t.Fatalf("line sum %d must equal total %d", sum, totals.Y1)
	}
}

func TestLineItemsDiscountClampsLine(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st = st.SetQuantity(snap, chFlex20, 2)
	st = st.SetQuantity(snap, chFlex10, 1)

	// chFlex10 line is 9.99 gross, discount is 10: the line clamps.
	items := LineItems(st, snap)
	for _, it := range items {
		if it.ChoiceID == chFlex10 && it.Y1 != 0 {
			t.Fatalf("over-discounted line must clamp at zero, got %d", it.Y1)
		}
	}
}
