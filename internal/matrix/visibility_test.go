package matrix

import (
	"testing"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

func TestChoiceVisible(t *testing.T) {
	snap := newTestSnapshot()

	if !snap.ChoiceVisible(chDataExtra, map[uint]bool{}) {
		t.Fatalf("choice without rules must always be visible")
	}
	if snap.ChoiceVisible(chRoaming, map[uint]bool{}) {
		t.Fatalf("ruled choice must be hidden with no dependency selected")
	}
	if !snap.ChoiceVisible(chRoaming, map[uint]bool{chPackXS: true}) {
		t.Fatalf("ruled choice must be visible once its dependency is selected")
	}
	if snap.ChoiceVisible(chRoaming, map[uint]bool{chPackGo: true}) {
		t.Fatalf("unrelated selection must not satisfy the rule")
	}
}

func TestVisibleSectionsFiltersRuledChoices(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()

	sections := snap.VisibleSections(st.PlainSelectedIDs())
	for _, sec := range sections {
		for _, c := range sec.Choices {
			if c.ID == chRoaming {
				t.Fatalf("hidden choice leaked into visible sections")
			}
		}
	}

	st = mustApplySingle(t, snap, st, "pack_type", chPackXS)
	sections = snap.VisibleSections(st.PlainSelectedIDs())
	found := false
	for _, sec := range sections {
		for _, c := range sec.Choices {
			if c.ID == chRoaming {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("roaming must become visible once Flex+ XS is selected")
	}
}

func TestVisibleSectionsDropsEmptySections(t *testing.T) {
	// A section whose only choice is gated stays off the navigation
	// until the dependency is met.
	sections := baseSections(types.SectionSingle)
	for i := range sections {
		if sections[i].Key == "options" {
			sections[i].Choices = sections[i].Choices[:1] // roaming only
		}
	}
	snap := NewSnapshot(sections, baseRules(), nil)

	for _, sec := range snap.VisibleSections(map[uint]bool{}) {
		if sec.Key == "options" {
			t.Fatalf("section with no visible choice must be dropped")
		}
	}

	found := false
	for _, sec := range snap.VisibleSections(map[uint]bool{chPackXS: true}) {
		if sec.Key == "options" {
			found = true
		}
	}
	if !found {
		t.Fatalf("section must reappear once its choice becomes visible")
	}
}

// A selected choice that loses visibility stays in the state and keeps
// pricing; the section list just stops showing it.
func TestStaleSelectionKeepsPricing(t *testing.T) {
	snap := newTestSnapshot()
	st := NewSelectionState()
	st = mustApplySingle(t, snap, st, "pack_type", chPackXS)

	var err *ValidationError
	st, err = st.ToggleMulti(snap, "options", chRoaming)
	if err != nil {
		t.Fatalf("ToggleMulti rejected: %v", err)
	}

	// Deselect the pack: roaming's dependency is gone.
	st = mustApplySingle(t, snap, st, "pack_type", chPackXS)

	if snap.ChoiceVisible(chRoaming, st.PlainSelectedIDs()) {
		t.Fatalf("roaming must be hidden after its dependency is deselected")
	}
	if !st.SelectedIDs()[chRoaming] {
		t.Fatalf("stale selection must stay in the state")
	}
	totals := ComputeTotals(st, snap)
	if totals.Y1 != Cents(5) {
		t.Fatalf("stale selection must keep pricing, got Y1=%d", totals.Y1)
	}
}
