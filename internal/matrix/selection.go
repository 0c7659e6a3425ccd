package matrix

import "github.com/eol-ict/onlyoo-backend/internal/types"

// GSMFlexMax caps the Flex and Opt quantity pools. Solo is unbounded.
const GSMFlexMax = 6

// SelectionState is the serializable value object tracking what the
// agent has chosen. Reducers never mutate the receiver; they return a
// fresh state, or the receiver unchanged when a mutation is rejected.
//
// A quantity of zero is represented as absence from Qty, never as a
// stored zero.
type SelectionState struct {
	Single map[string]uint   `json:"single"`
	Multi  map[string][]uint `json:"multi"`
	Qty    map[uint]int      `json:"qty"`
}

func NewSelectionState() SelectionState {
	return SelectionState{
		Single: map[string]uint{},
		Multi:  map[string][]uint{},
		Qty:    map[uint]int{},
	}
}

func (st SelectionState) clone() SelectionState {
	next := SelectionState{
		Single: make(map[string]uint, len(st.Single)),
		Multi:  make(map[string][]uint, len(st.Multi)),
		Qty:    make(map[uint]int, len(st.Qty)),
	}
	for k, v := range st.Single {
		next.Single[k] = v
	}
	for k, v := range st.Multi {
		ids := make([]uint, len(v))
		copy(ids, v)
		next.Multi[k] = ids
	}
	for k, v := range st.Qty {
		next.Qty[k] = v
	}
	return next
}

// SelectedIDs returns the union of plain selections and qty>0 entries
// as a set.
func (st SelectionState) SelectedIDs() map[uint]bool {
	out := make(map[uint]bool)
	for _, id := range st.Single {
		if id != 0 {
			out[id] = true
		}
	}
	for _, ids := range st.Multi {
		for _, id := range ids {
			out[id] = true
		}
	}
	for id, q := range st.Qty {
		if q > 0 {
			out[id] = true
		}
	}
	return out
}

// PlainSelectedIDs is SelectedIDs without the quantity entries; it is
// the set the visibility evaluator keys on.
func (st SelectionState) PlainSelectedIDs() map[uint]bool {
	out := make(map[uint]bool)
	for _, id := range st.Single {
		if id != 0 {
			out[id] = true
		}
	}
	for _, ids := range st.Multi {
		for _, id := range ids {
			out[id] = true
		}
	}
	return out
}

// HasAnySelection reports whether anything at all is chosen.
func (st SelectionState) HasAnySelection() bool {
	for _, id := range st.Single {
		if id != 0 {
			return true
		}
	}
	for _, ids := range st.Multi {
		if len(ids) > 0 {
			return true
		}
	}
	for _, q := range st.Qty {
		if q > 0 {
			return true
		}
	}
	return false
}

// PoolTotals are the running quantity totals per GSM pool.
type PoolTotals struct {
	Flex int
	Opt  int
	Solo int
}

func (st SelectionState) GSMTotals(snap *Snapshot) PoolTotals {
	var t PoolTotals
	for id, q := range st.Qty {
		if q <= 0 {
			continue
		}
		switch snap.KindOf(id) {
		case KindFlex:
			t.Flex += q
		case KindOpt:
			t.Opt += q
		case KindSolo:
			t.Solo += q
		}
	}
	return t
}

// FlexQty is the quantity feeding the volume discount: Flex-kind
// sections only, Opt and Solo excluded.
func (st SelectionState) FlexQty(snap *Snapshot) int {
	return st.GSMTotals(snap).Flex
}

// ApplySingle sets the active choice of a single-type section.
// Re-applying the active choice toggles it off. Selecting a child
// replaces the parent-level value: the child's id IS the section value.
// Incompatible promotion clicks are rejected with the state unchanged.
func (st SelectionState) ApplySingle(snap *Snapshot, sectionKey string, choiceID uint) (SelectionState, *ValidationError) {
	if err := st.guardPromoClick(snap, sectionKey, choiceID); err != nil {
		return st, err
	}
	next := st.clone()
	if next.Single[sectionKey] == choiceID {
		delete(next.Single, sectionKey)
		return next, nil
	}
	next.Single[sectionKey] = choiceID
	return next, nil
}

// ToggleMulti adds or removes a choice from a multi-type section.
func (st SelectionState) ToggleMulti(snap *Snapshot, sectionKey string, choiceID uint) (SelectionState, *ValidationError) {
	cur := st.Multi[sectionKey]
	for i, id := range cur {
		if id == choiceID {
			next := st.clone()
			next.Multi[sectionKey] = append(next.Multi[sectionKey][:i:i], next.Multi[sectionKey][i+1:]...)
			if len(next.Multi[sectionKey]) == 0 {
				delete(next.Multi, sectionKey)
			}
			return next, nil
		}
	}
	if err := st.guardPromoClick(snap, sectionKey, choiceID); err != nil {
		return st, err
	}
	next := st.clone()
	next.Multi[sectionKey] = append(next.Multi[sectionKey], choiceID)
	return next, nil
}

// guardPromoClick rejects promotion selections that conflict with the
// current state outright, so no invalid intermediate state ever exists.
// Everything else is left to the submit-time validation battery.
func (st SelectionState) guardPromoClick(snap *Snapshot, sectionKey string, choiceID uint) *ValidationError {
	sec := snap.SectionByKey(sectionKey)
	if sec == nil || snap.SectionKind(sec.ID) != KindPromo {
		return nil
	}
	flavor := st.promoFlavorOfChoice(snap, choiceID)

	switch flavor {
	case PromoAvantageMulti:
		if st.hasPackSelection(snap) {
			return selectionError("La promotion Avantage Multi est incompatible avec un Pack Flex.")
		}
	case PromoSixMois:
		if st.hasPromoFlavor(snap, PromoDouzeMois) {
			return selectionError("Les promotions 6 mois et 12 mois ne peuvent pas être combinées.")
		}
	case PromoDouzeMois:
		if st.hasPromoFlavor(snap, PromoSixMois) {
			return selectionError("Les promotions 6 mois et 12 mois ne peuvent pas être combinées.")
		}
	case PromoMobileFlex:
		if st.hasPromoFlavor(snap, PromoCadeaux) || st.hasPromoFlavor(snap, PromoSans) {
			return selectionError("La Promotion Mobile Flex est incompatible avec Cadeaux ou Sans promo.")
		}
	case PromoCadeaux, PromoSans:
		if st.hasPromoFlavor(snap, PromoMobileFlex) {
			return selectionError("La Promotion Mobile Flex est incompatible avec Cadeaux ou Sans promo.")
		}
	}
	return nil
}

// promoFlavorOfChoice resolves the flavor of a (possibly child) choice,
// preferring the parent label for gift sub-options.
func (st SelectionState) promoFlavorOfChoice(snap *Snapshot, choiceID uint) PromoFlavor {
	c := snap.Choice(choiceID)
	if c == nil {
		return PromoNone
	}
	if c.ParentID != nil {
		if parent := snap.Choice(*c.ParentID); parent != nil {
			if f := ClassifyPromo(parent.Label); f != PromoNone && f != PromoOtherFlavor {
				return f
			}
		}
	}
	return ClassifyPromo(c.Label)
}

func (st SelectionState) hasPromoFlavor(snap *Snapshot, flavor PromoFlavor) bool {
	for id := range st.SelectedIDs() {
		if snap.KindOf(id) != KindPromo {
			continue
		}
		if st.promoFlavorOfChoice(snap, id) == flavor {
			return true
		}
	}
	return false
}

func (st SelectionState) hasPackSelection(snap *Snapshot) bool {
	for id := range st.SelectedIDs() {
		if snap.KindOf(id) == KindPack {
			return true
		}
	}
	return false
}

// SetQuantity sets a choice quantity. qty <= 0 removes the entry.
// Increments past the Flex/Opt pool cap (or a per-choice MaxQty) are
// silently rejected: the state comes back unchanged, not an error.
// Quantity-capable non-GSM choices inside a single-type section are
// mutually exclusive with their quantity siblings.
func (st SelectionState) SetQuantity(snap *Snapshot, choiceID uint, qty int) SelectionState {
	if qty < 0 {
		qty = 0
	}
	if qty == 0 {
		if _, ok := st.Qty[choiceID]; !ok {
			return st
		}
		next := st.clone()
		delete(next.Qty, choiceID)
		return next
	}

	c := snap.Choice(choiceID)
	if c == nil {
		return st
	}
	if c.MaxQty > 0 && qty > c.MaxQty {
		return st
	}

	kind := snap.KindOf(choiceID)
	if kind == KindFlex || kind == KindOpt {
		totals := st.GSMTotals(snap)
		pool := totals.Flex
		if kind == KindOpt {
			pool = totals.Opt
		}
		if pool-st.Qty[choiceID]+qty > GSMFlexMax {
			return st
		}
	}

	next := st.clone()
	if !kind.GSM() {
		// Non-GSM quantity choices in a single section replace each other.
		if sec := snap.SectionOf(choiceID); sec != nil && sec.Type == types.SectionSingle {
			for id := range next.Qty {
				if id != choiceID && snap.Choice(id) != nil && snap.Choice(id).SectionID == c.SectionID {
					delete(next.Qty, id)
				}
			}
		}
	}
	next.Qty[choiceID] = qty
	return next
}

// Increment and Decrement adjust a quantity by one, honoring the same
// clamps as SetQuantity.
func (st SelectionState) Increment(snap *Snapshot, choiceID uint) SelectionState {
	return st.SetQuantity(snap, choiceID, st.Qty[choiceID]+1)
}

func (st SelectionState) Decrement(snap *Snapshot, choiceID uint) SelectionState {
	return st.SetQuantity(snap, choiceID, st.Qty[choiceID]-1)
}
