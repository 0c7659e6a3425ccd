package matrix

import "github.com/eol-ict/onlyoo-backend/internal/types"

// ChoiceVisible reports whether a choice may be shown given the current
// selection. A choice with no SHOW_IF rule targeting it is always
// visible; otherwise at least one of its dependencies must be selected
// (disjunction across rules for the same target).
func (s *Snapshot) ChoiceVisible(choiceID uint, selected map[uint]bool) bool {
	deps := s.showIf[choiceID]
	if len(deps) == 0 {
		return true
	}
	for _, dep := range deps {
		if selected[dep] {
			return true
		}
	}
	return false
}

// VisibleChoiceIDs evaluates every choice in the snapshot against the
// selection set. Pure function of (catalog, rules, selection); callers
// recompute it on every selection change.
func (s *Snapshot) VisibleChoiceIDs(selected map[uint]bool) map[uint]bool {
	out := make(map[uint]bool, len(s.choiceByID))
	for id := range s.choiceByID {
		if s.ChoiceVisible(id, selected) {
			out[id] = true
		}
	}
	return out
}

// VisibleSections returns the sections the agent is shown, each reduced
// to its visible choices. Sections with zero visible choices disappear
// from the navigation entirely.
//
// A selected choice that has lost visibility is NOT cleared here: it
// stays in the selection state (and keeps pricing) but is excluded from
// the returned sections. Clearing is the caller's decision.
func (s *Snapshot) VisibleSections(selected map[uint]bool) []types.Section {
	var out []types.Section
	for _, sec := range s.Sections {
		var visible []types.Choice
		for _, c := range sec.Choices {
			if !s.ChoiceVisible(c.ID, selected) {
				continue
			}
			kept := c
			var kids []types.Choice
			for _, child := range c.Children {
				if s.ChoiceVisible(child.ID, selected) {
					kids = append(kids, child)
				}
			}
			kept.Children = kids
			visible = append(visible, kept)
		}
		if len(visible) == 0 {
			continue
		}
		sec.Choices = visible
		out = append(out, sec)
	}
	return out
}
