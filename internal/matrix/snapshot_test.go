package matrix

import (
	"testing"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

func TestNewSnapshotFiltersAndSorts(t *testing.T) {
	sections := []types.Section{
		{ID: 2, Key: "b", Title: "B", Type: types.SectionSingle, SortOrder: 2, Active: true, Choices: []types.Choice{
			{ID: 20, SectionID: 2, Key: "b1", Label: "B1", SortOrder: 2, Active: true},
			{ID: 21, SectionID: 2, Key: "b2", Label: "B2", SortOrder: 1, Active: true},
			{ID: 22, SectionID: 2, Key: "b3", Label: "B3", SortOrder: 3, Active: false},
		}},
		{ID: 1, Key: "a", Title: "A", Type: types.SectionSingle, SortOrder: 1, Active: true},
		{ID: 3, Key: "c", Title: "C", Type: types.SectionSingle, SortOrder: 3, Active: false},
	}

	snap := NewSnapshot(sections, nil, nil)

	if len(snap.Sections) != 2 {
		t.Fatalf("expected 2 active sections, got %d", len(snap.Sections))
	}
	if snap.Sections[0].Key != "a" || snap.Sections[1].Key != "b" {
		t.Fatalf("sections not sorted by sort order: %q, %q", snap.Sections[0].Key, snap.Sections[1].Key)
	}
	b := snap.SectionByKey("b")
	if b == nil || len(b.Choices) != 2 {
		t.Fatalf("expected 2 active choices in section b")
	}
	if b.Choices[0].ID != 21 || b.Choices[1].ID != 20 {
		t.Fatalf("choices not sorted by sort order: %d, %d", b.Choices[0].ID, b.Choices[1].ID)
	}
	if snap.Choice(22) != nil {
		t.Fatalf("inactive choice must not be indexed")
	}
	if snap.SectionByKey("c") != nil {
		t.Fatalf("inactive section must not be kept")
	}
}

func TestNewSnapshotNestsFlatChildren(t *testing.T) {
	snap := newTestSnapshot()

	promo := snap.SectionByKey("promotions")
	if promo == nil {
		t.Fatalf("promotions section missing")
	}
	var cadeaux *types.Choice
	for i := range promo.Choices {
		if promo.Choices[i].ID == chCadeaux {
			cadeaux = &promo.Choices[i]
		}
		if promo.Choices[i].ID == chGiftJBL {
			t.Fatalf("child choice must not appear as a root")
		}
	}
	if cadeaux == nil {
		t.Fatalf("cadeaux choice missing")
	}
	if len(cadeaux.Children) != 1 || cadeaux.Children[0].ID != chGiftJBL {
		t.Fatalf("gift child not nested under its parent: %+v", cadeaux.Children)
	}
	if snap.Choice(chGiftJBL) == nil {
		t.Fatalf("nested child must stay addressable by id")
	}
}

func TestSnapshotAccessors(t *testing.T) {
	snap := newTestSnapshot()

	if sec := snap.SectionOf(chFlex20); sec == nil || sec.Key != "gsm_flex_main" {
		t.Fatalf("SectionOf(chFlex20) wrong: %+v", sec)
	}
	if snap.KindOf(chFlex20) != KindFlex {
		t.Fatalf("KindOf(chFlex20) != KindFlex")
	}
	if snap.KindOf(chSolo20) != KindSolo {
		t.Fatalf("KindOf(chSolo20) != KindSolo")
	}
	if snap.KindOf(999) != KindOther {
		t.Fatalf("unknown choice must map to KindOther")
	}
	if ps := snap.PromoSection(); ps == nil || ps.Key != "promotions" {
		t.Fatalf("PromoSection wrong: %+v", ps)
	}
}

func TestEffectivePriceUsesParent(t *testing.T) {
	snap := newTestSnapshot()

	y1, y2 := snap.EffectivePrice(snap.Choice(chGiftJBL))
	if y1 != 5 || y2 != 5 {
		t.Fatalf("child must be billed at parent price, got %v/%v", y1, y2)
	}

	y1, y2 = snap.EffectivePrice(snap.Choice(chPackGo))
	if y1 != 50 || y2 != 60 {
		t.Fatalf("root choice keeps its own price, got %v/%v", y1, y2)
	}

	if y1, y2 := snap.EffectivePrice(nil); y1 != 0 || y2 != 0 {
		t.Fatalf("nil choice prices at zero")
	}
}
