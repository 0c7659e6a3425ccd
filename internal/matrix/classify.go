package matrix

import (
	"strings"

	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// SectionKind partitions sections for the quantity, discount and
// validation rules. Keys are the stable contract; title matching is the
// fallback for catalogs predating the key conventions.
type SectionKind int

const (
	KindOther SectionKind = iota
	KindFlex
	KindOpt
	KindSolo
	KindPromo
	KindPack
	KindInstall
	KindDataPhone
)

func (k SectionKind) String() string {
	switch k {
	case KindFlex:
		return "gsm_flex"
	case KindOpt:
		return "gsm_opt"
	case KindSolo:
		return "gsm_solo"
	case KindPromo:
		return "promotion"
	case KindPack:
		return "pack"
	case KindInstall:
		return "installation"
	case KindDataPhone:
		return "data_phone"
	default:
		return "other"
	}
}

// GSM reports whether the kind is one of the three quantity pools.
func (k SectionKind) GSM() bool {
	return k == KindFlex || k == KindOpt || k == KindSolo
}

// ClassifySection derives the section kind once per snapshot load so the
// fragile string matching lives in exactly one place.
func ClassifySection(key, title string) SectionKind {
	k := strings.ToLower(key)
	t := strings.ToLower(title)

	switch {
	case strings.HasPrefix(k, "gsm_flex"):
		return KindFlex
	case strings.HasPrefix(k, "gsm_opt"):
		return KindOpt
	case strings.HasPrefix(k, "gsm_solo"):
		return KindSolo
	}

	if strings.Contains(t, "gsm") || strings.Contains(k, "gsm") {
		switch {
		case strings.Contains(t, "solo") || strings.Contains(k, "solo"):
			return KindSolo
		case strings.Contains(t, "option") || strings.Contains(k, "option"):
			return KindOpt
		case strings.Contains(t, "flex") || strings.Contains(k, "flex"):
			return KindFlex
		}
	}

	switch {
	case strings.Contains(k, "promotion") || strings.Contains(t, "promotion"):
		return KindPromo
	case strings.Contains(k, "installation") || strings.Contains(t, "installation"):
		return KindInstall
	case isDataPhoneToken(k) || isDataPhoneToken(t):
		return KindDataPhone
	case k == "pack_type" || strings.Contains(k, "pack") || strings.Contains(t, "pack"):
		return KindPack
	}
	return KindOther
}

func isDataPhoneToken(s string) bool {
	return strings.Contains(s, "data_phone") || strings.Contains(s, "dataphone") ||
		(strings.Contains(s, "data") && strings.Contains(s, "phone"))
}

// PromoFlavor identifies the promotion variants the cross-field rules
// reason about. Derived from choice labels, parent label first when the
// selected choice is a gift sub-option.
type PromoFlavor int

const (
	PromoNone PromoFlavor = iota
	PromoSans
	PromoCadeaux
	PromoAvantageMulti
	PromoMobileFlex
	PromoPremierMobileFlex
	PromoSixMois
	PromoDouzeMois
	PromoOtherFlavor
)

func ClassifyPromo(label string) PromoFlavor {
	l := strings.ToLower(label)
	switch {
	case l == "":
		return PromoNone
	case strings.Contains(l, "sans promo"):
		return PromoSans
	case strings.Contains(l, "cadeaux"):
		return PromoCadeaux
	case strings.Contains(l, "avantage multi"):
		return PromoAvantageMulti
	case strings.Contains(l, "premier mobile flex"):
		return PromoPremierMobileFlex
	case strings.Contains(l, "mobile flex"):
		return PromoMobileFlex
	case strings.Contains(l, "6 mois") || strings.Contains(l, "6mois"):
		return PromoSixMois
	case strings.Contains(l, "12 mois") || strings.Contains(l, "12mois"):
		return PromoDouzeMois
	default:
		return PromoOtherFlavor
	}
}

// IsInstallChoice detects installation line items by key, label or
// owning section naming.
func IsInstallChoice(c *types.Choice, sec *types.Section) bool {
	if c == nil {
		return false
	}
	if containsInstall(c.Key) || containsInstall(c.Label) {
		return true
	}
	return sec != nil && ClassifySection(sec.Key, sec.Title) == KindInstall
}

func containsInstall(s string) bool {
	return strings.Contains(strings.ToLower(s), "installation")
}

// IsDataPhoneChoice detects data-phone line items by key or owning
// section naming.
func IsDataPhoneChoice(c *types.Choice, sec *types.Section) bool {
	if c == nil {
		return false
	}
	if isDataPhoneToken(strings.ToLower(c.Key)) || isDataPhoneToken(strings.ToLower(c.Label)) {
		return true
	}
	return sec != nil && ClassifySection(sec.Key, sec.Title) == KindDataPhone
}

// IsPackFlexChoice reports whether a pack-section choice is a Flex pack,
// which makes installation mandatory.
func IsPackFlexChoice(c *types.Choice) bool {
	if c == nil {
		return false
	}
	return strings.Contains(strings.ToLower(c.Key), "flex") ||
		strings.Contains(strings.ToLower(c.Label), "flex")
}
