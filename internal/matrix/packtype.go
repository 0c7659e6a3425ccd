package matrix

import (
	"strings"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// PackChoice returns the selected pack choice, preferring the canonical
// pack_type section over title-matched pack sections.
func (st SelectionState) PackChoice(snap *Snapshot) *types.Choice {
	sec := snap.SectionByKey("pack_type")
	if sec == nil {
		for i := range snap.Sections {
			if snap.SectionKind(snap.Sections[i].ID) == KindPack {
				sec = &snap.Sections[i]
				break
			}
		}
	}
	if sec == nil {
		return nil
	}
	if id := st.Single[sec.Key]; id != 0 {
		return snap.Choice(id)
	}
	for _, id := range st.Multi[sec.Key] {
		return snap.Choice(id)
	}
	return nil
}

// ComputedPackType maps the selected pack label onto the contract type
// shown to the back-office. The match order matters: "xs" is a subset
// of "s".
func ComputedPackType(packLabel string) string {
	p := strings.ToLower(strings.TrimSpace(packLabel))
	switch {
	case p == "":
		return ""
	case p == "go":
		return "Internet Seul"
	case strings.Contains(p, "flex") && strings.Contains(p, "xs"):
		return "Internet + mobiles"
	case strings.Contains(p, "flex") && strings.Contains(p, "s"):
		return "Internet TV mobiles"
	case strings.Contains(p, "flex+"):
		return "Int + TV + FIXE + Mobile"
	default:
		return ""
	}
}

// ComputedAlert derives the advisory banner from the selected pack and
// whether any core GSM unit (Flex or Solo) is on the quote.
func ComputedAlert(packLabel string, gsmSelected bool) string {
	p := strings.ToLower(strings.TrimSpace(packLabel))
	if p == "" {
		return "Offre financière"
	}

	isXS := strings.Contains(p, "xs")
	isFlexS := strings.Contains(p, "flex") && strings.Contains(p, " s") && !isXS
	isFlexPlus := strings.Contains(p, "flex+") && !isXS

	switch {
	case isXS:
		return "Offre Cadeau Interdite XS!"
	case (isFlexS || isFlexPlus) && !gsmSelected:
		return "Offre Cadeau Interdite Sans GSM!"
	case isFlexS || isFlexPlus:
		return "Informer le client de l'avance et de l'IBAN"
	default:
		return "Offre financière"
	}
}
