package matrix

import (
	"fmt"
	"math"
	"sort"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// FlexDiscountStep is the volume discount per Flex unit beyond the
// first, in cents.
const FlexDiscountStep int64 = 500

// Money is carried as integer cents everywhere inside the engine;
// floats exist only at the storage and JSON boundaries.

func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func Euros(c int64) float64 {
	return float64(c) / 100
}

// FormatEuros renders cents with two decimals for display.
func FormatEuros(c int64) string {
	return fmt.Sprintf("%.2f €", Euros(c))
}

// FlexDiscountCents computes the GSM-Flex volume discount:
// (flexQty-1)*5€ once flexQty exceeds one.
func FlexDiscountCents(flexQty int) int64 {
	if flexQty <= 1 {
		return 0
	}
	return int64(flexQty-1) * FlexDiscountStep
}

// Totals are the derived quote totals in cents, net of discount.
type Totals struct {
	Y1       int64
	Y2       int64
	FlexQty  int
	Discount int64
}

// ComputeTotals derives Year-1/Year-2 totals from the selection state.
// Every plain selection counts once at quantity 1; every qty entry
// counts at its quantity; a choice reachable through both counts once
// (the quantity wins). Children are billed at their parent's price.
// The Flex discount is subtracted from BOTH totals, clamped at zero.
//
// This is the single pricing formula: the submission endpoint calls it
// too, so client preview and server re-derivation cannot drift.
func ComputeTotals(st SelectionState, snap *Snapshot) Totals {
	var t Totals

	for _, e := range workingSet(st, snap) {
		y1, y2 := snap.EffectivePrice(e.choice)
		t.Y1 += Cents(y1) * int64(e.qty)
		t.Y2 += Cents(y2) * int64(e.qty)
	}

	t.FlexQty = st.FlexQty(snap)
	t.Discount = FlexDiscountCents(t.FlexQty)
	t.Y1 -= t.Discount
	t.Y2 -= t.Discount
	if t.Y1 < 0 {
		t.Y1 = 0
	}
	if t.Y2 < 0 {
		t.Y2 = 0
	}
	return t
}

type pricedEntry struct {
	choice *types.Choice
	qty    int
}

// workingSet unions plain selections (qty 1) with qty>0 entries by
// choice id, in stable display order (section sort order, then choice
// sort order, then id).
func workingSet(st SelectionState, snap *Snapshot) []pricedEntry {
	qtyByID := make(map[uint]int)
	for id := range st.PlainSelectedIDs() {
		if snap.Choice(id) != nil {
			qtyByID[id] = 1
		}
	}
	for id, q := range st.Qty {
		if q > 0 && snap.Choice(id) != nil {
			qtyByID[id] = q
		}
	}

	out := make([]pricedEntry, 0, len(qtyByID))
	for id, q := range qtyByID {
		out = append(out, pricedEntry{choice: snap.Choice(id), qty: q})
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := snap.SectionOf(out[i].choice.ID), snap.SectionOf(out[j].choice.ID)
		soi, soj := 0, 0
		if si != nil {
			soi = si.SortOrder
		}
		if sj != nil {
			soj = sj.SortOrder
		}
		if soi != soj {
			return soi < soj
		}
		if out[i].choice.SortOrder != out[j].choice.SortOrder {
			return out[i].choice.SortOrder < out[j].choice.SortOrder
		}
		return out[i].choice.ID < out[j].choice.ID
	})
	return out
}

// LineItem is one summary/email line with per-line net prices in cents.
type LineItem struct {
	ChoiceID     uint
	SectionTitle string
	Label        string
	Qty          int
	Y1           int64
	Y2           int64
}

// LineItems renders the priced working set for the summary pane and the
// email body. The entire Flex discount is attributed to the LAST Flex
// line in display order, matching what customers have been shown.
func LineItems(st SelectionState, snap *Snapshot) []LineItem {
	entries := workingSet(st, snap)
	items := make([]LineItem, 0, len(entries))
	lastFlex := -1

	for i, e := range entries {
		y1, y2 := snap.EffectivePrice(e.choice)
		item := LineItem{
			ChoiceID: e.choice.ID,
			Label:    e.choice.Label,
			Qty:      e.qty,
			Y1:       Cents(y1) * int64(e.qty),
			Y2:       Cents(y2) * int64(e.qty),
		}
		if sec := snap.SectionOf(e.choice.ID); sec != nil {
			item.SectionTitle = sec.Title
		}
		if snap.KindOf(e.choice.ID) == KindFlex && st.Qty[e.choice.ID] > 0 {
			lastFlex = i
		}
		items = append(items, item)
	}

	if discount := FlexDiscountCents(st.FlexQty(snap)); discount > 0 && lastFlex >= 0 {
		items[lastFlex].Y1 -= discount
		items[lastFlex].Y2 -= discount
		if items[lastFlex].Y1 < 0 {
			items[lastFlex].Y1 = 0
		}
		if items[lastFlex].Y2 < 0 {
			items[lastFlex].Y2 = 0
		}
	}
	return items
}
