package matrix

import (
	"sort"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// Snapshot is the in-memory runtime shape of the active catalog. It is
// immutable once built; the engine functions are pure over it.
type Snapshot struct {
	Sections []types.Section `json:"sections"`
	Rules    []types.Rule    `json:"rules"`
	Alerts   []types.Alert   `json:"alerts"`

	choiceByID  map[uint]*types.Choice
	sectionByID map[uint]*types.Section
	kindByID    map[uint]SectionKind
	showIf      map[uint][]uint
}

// NewSnapshot filters to active rows, orders by sort order, nests one
// level of children and precomputes the lookup tables. Input sections
// are expected with Choices populated (children either nested on their
// parents or present as flat rows with ParentID set).
func NewSnapshot(sections []types.Section, rules []types.Rule, alerts []types.Alert) *Snapshot {
	s := &Snapshot{
		Rules:       rules,
		Alerts:      make([]types.Alert, 0, len(alerts)),
		choiceByID:  make(map[uint]*types.Choice),
		sectionByID: make(map[uint]*types.Section),
		kindByID:    make(map[uint]SectionKind),
		showIf:      make(map[uint][]uint),
	}

	for _, a := range alerts {
		if a.Active {
			s.Alerts = append(s.Alerts, a)
		}
	}
	sort.SliceStable(s.Alerts, func(i, j int) bool {
		return s.Alerts[i].SortOrder < s.Alerts[j].SortOrder
	})

	for _, sec := range sections {
		if !sec.Active {
			continue
		}
		sec.Choices = nestChoices(sec.Choices)
		s.Sections = append(s.Sections, sec)
	}
	sort.SliceStable(s.Sections, func(i, j int) bool {
		return s.Sections[i].SortOrder < s.Sections[j].SortOrder
	})

	for i := range s.Sections {
		sec := &s.Sections[i]
		s.sectionByID[sec.ID] = sec
		s.kindByID[sec.ID] = ClassifySection(sec.Key, sec.Title)
		for j := range sec.Choices {
			root := &sec.Choices[j]
			s.choiceByID[root.ID] = root
			for k := range root.Children {
				s.choiceByID[root.Children[k].ID] = &root.Children[k]
			}
		}
	}

	for _, r := range rules {
		if r.Type != types.RuleShowIf {
			continue
		}
		s.showIf[r.TargetID] = append(s.showIf[r.TargetID], r.DependsOnID)
	}

	return s
}

// nestChoices drops inactive rows, attaches children to their parents
// (one level only; a child's own descendants are ignored) and sorts
// everything by sort order.
func nestChoices(choices []types.Choice) []types.Choice {
	var roots []types.Choice
	childrenOf := make(map[uint][]types.Choice)

	for _, c := range choices {
		if !c.Active {
			continue
		}
		if c.ParentID != nil {
			child := c
			child.Children = nil
			childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], child)
			continue
		}
		root := c
		for _, nested := range root.Children {
			if nested.Active {
				nested.Children = nil
				childrenOf[root.ID] = append(childrenOf[root.ID], nested)
			}
		}
		root.Children = nil
		roots = append(roots, root)
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].SortOrder < roots[j].SortOrder
	})
	for i := range roots {
		kids := childrenOf[roots[i].ID]
		sort.SliceStable(kids, func(a, b int) bool {
			return kids[a].SortOrder < kids[b].SortOrder
		})
		roots[i].Children = dedupeByID(kids)
	}
	return roots
}

func dedupeByID(in []types.Choice) []types.Choice {
	if len(in) < 2 {
		return in
	}
	seen := make(map[uint]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// Choice returns the active choice (root or child) with the given id.
func (s *Snapshot) Choice(id uint) *types.Choice {
	return s.choiceByID[id]
}

// SectionOf returns the owning section of a choice id.
func (s *Snapshot) SectionOf(id uint) *types.Section {
	c := s.choiceByID[id]
	if c == nil {
		return nil
	}
	return s.sectionByID[c.SectionID]
}

// KindOf returns the precomputed kind of a choice's owning section.
func (s *Snapshot) KindOf(choiceID uint) SectionKind {
	c := s.choiceByID[choiceID]
	if c == nil {
		return KindOther
	}
	return s.kindByID[c.SectionID]
}

// SectionKind returns the precomputed kind for a section id.
func (s *Snapshot) SectionKind(sectionID uint) SectionKind {
	return s.kindByID[sectionID]
}

// SectionByKey returns the active section with the given key.
func (s *Snapshot) SectionByKey(key string) *types.Section {
	for i := range s.Sections {
		if s.Sections[i].Key == key {
			return &s.Sections[i]
		}
	}
	return nil
}

// PromoSection returns the promotion section, if the catalog has one.
func (s *Snapshot) PromoSection() *types.Section {
	for i := range s.Sections {
		if s.kindByID[s.Sections[i].ID] == KindPromo {
			return &s.Sections[i]
		}
	}
	return nil
}

// EffectivePrice resolves the charged prices for a choice: children are
// billed at their parent's price regardless of their own fields.
func (s *Snapshot) EffectivePrice(c *types.Choice) (y1, y2 float64) {
	if c == nil {
		return 0, 0
	}
	if c.ParentID != nil {
		if parent := s.choiceByID[*c.ParentID]; parent != nil {
			return parent.PriceY1, parent.PriceY2
		}
	}
	return c.PriceY1, c.PriceY2
}
