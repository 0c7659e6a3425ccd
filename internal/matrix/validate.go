package matrix

import (
	"regexp"
	"strings"
)

// ErrorKind controls how the UI treats a failure: selection errors block
// at interaction time, validation errors only block submission, system
// errors are transport failures and never produced by this package's
// pure functions.
type ErrorKind string

const (
	ErrKindSelection  ErrorKind = "selection"
	ErrKindValidation ErrorKind = "validation"
	ErrKindSystem     ErrorKind = "system"
)

// ValidationError carries exactly one human-readable message: the first
// failing rule wins, never an aggregate list.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func selectionError(msg string) *ValidationError {
	return &ValidationError{Kind: ErrKindSelection, Message: msg}
}

func validationError(msg string) *ValidationError {
	return &ValidationError{Kind: ErrKindValidation, Message: msg}
}

// ClientInfo is the customer identity block on the quote form.
type ClientInfo struct {
	Civility  string `json:"civility"`
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

var nonDigitRe = regexp.MustCompile(`\D`)

func NormalizeBeMobile(v string) string {
	return nonDigitRe.ReplaceAllString(v, "")
}

func ValidEmail(v string) bool {
	return emailRe.MatchString(NormalizeEmail(v))
}

// ValidBeMobile accepts Belgian mobiles only: exactly 10 digits,
// starting 04, and not the all-zero placeholder.
func ValidBeMobile(v string) bool {
	digits := NormalizeBeMobile(v)
	return len(digits) == 10 && strings.HasPrefix(digits, "04") && digits != "0000000000"
}

// Fixed key allow-lists for the Cadeaux co-selection requirement.
var (
	tvPackKeys       = map[string]bool{"flex_easy": true}
	internetPackKeys = map[string]bool{"packflex": true, "flex_xs": true, "Giga_Fiber": true, "Ultra_Fiber": true}
)

// Validate runs the cross-field business rules in priority order and
// returns the first failure, or nil when the quote may be submitted.
// Pure function of current state: callers re-run it on every relevant
// change so a displayed error clears itself once corrected.
func Validate(snap *Snapshot, st SelectionState, client ClientInfo, note string) *ValidationError {
	if err := validateClient(client); err != nil {
		return err
	}

	if !st.HasAnySelection() {
		return validationError("Sélectionnez au moins une option.")
	}

	totals := st.GSMTotals(snap)
	nonPromoPlain := st.nonPromoPlainCount(snap)
	soloOnly := totals.Solo > 0 && totals.Flex == 0 && totals.Opt == 0 && nonPromoPlain == 0
	flexOnly := totals.Flex > 0 && totals.Solo == 0 && totals.Opt == 0 && nonPromoPlain == 0

	flavors := st.selectedPromoFlavors(snap)
	promoSelected := len(flavors) > 0

	if snap.PromoSection() != nil && !promoSelected && !soloOnly {
		return validationError("Vous devez sélectionner au minimum une promotion avant l'envoi de l'offre.")
	}

	if soloOnly && promoSelected && !onlyFlavors(flavors, PromoSans) {
		return validationError("Avec un GSM Solo seul, seule la promotion Sans promo est autorisée.")
	}

	if flexOnly && promoSelected && !onlyFlavors(flavors, PromoSans, PromoAvantageMulti) {
		return validationError("Avec un GSM Flex seul, seules les promotions Sans promo ou Avantage Multi sont autorisées.")
	}

	if flavors[PromoSixMois] && flavors[PromoDouzeMois] {
		return validationError("Les promotions 6 mois et 12 mois ne peuvent pas être combinées.")
	}

	if flavors[PromoMobileFlex] && (flavors[PromoCadeaux] || flavors[PromoSans]) {
		return validationError("La Promotion Mobile Flex est incompatible avec Cadeaux ou Sans promo.")
	}

	if flavors[PromoAvantageMulti] {
		if st.hasPackSelection(snap) {
			return validationError("La promotion Avantage Multi est incompatible avec un Pack Flex.")
		}
		if totals.Flex < 1 {
			return validationError("La promotion Avantage Multi requiert au moins un GSM Flex.")
		}
	}

	if flavors[PromoCadeaux] {
		if !st.giftChildSelected(snap) {
			return validationError("Pour une promotion Cadeaux, sélectionnez un cadeau.")
		}
		if totals.Flex < 1 {
			return validationError("Pour une promotion Cadeaux, sélectionnez au moins un GSM Flex.")
		}
		if !st.hasPackKeyIn(snap, tvPackKeys) || !st.hasPackKeyIn(snap, internetPackKeys) {
			return validationError("Pour une promotion Cadeaux, sélectionnez 1 TV Proximus et 1 Internet dans Pack Flex.")
		}
	}

	if flavors[PromoPremierMobileFlex] && totals.Flex < 1 {
		return validationError("La promotion Premier Mobile Flex requiert au moins un GSM Flex.")
	}

	if err := st.validateInstallation(snap); err != nil {
		return err
	}

	if st.hasDataPhoneSelection(snap) && strings.TrimSpace(note) == "" {
		return validationError("Un commentaire est obligatoire pour un Data Phone.")
	}

	return nil
}

func validateClient(client ClientInfo) *ValidationError {
	switch {
	case strings.TrimSpace(client.Civility) == "":
		return validationError("Civilité requise.")
	case strings.TrimSpace(client.LastName) == "":
		return validationError("Nom du client requis.")
	case strings.TrimSpace(client.FirstName) == "":
		return validationError("Prénom du client requis.")
	case strings.TrimSpace(client.Email) == "":
		return validationError("Email du client requis.")
	case strings.TrimSpace(client.Phone) == "":
		return validationError("Téléphone du client requis.")
	case !ValidEmail(client.Email):
		return validationError("Email invalide (ex: nom@domaine.com).")
	case !ValidBeMobile(client.Phone):
		return validationError("Mobile invalide: doit commencer par 04 et contenir 10 chiffres.")
	}
	return nil
}

// nonPromoPlainCount counts plain (non-quantity) selections outside the
// promotion section.
func (st SelectionState) nonPromoPlainCount(snap *Snapshot) int {
	n := 0
	for id := range st.PlainSelectedIDs() {
		if snap.Choice(id) == nil {
			continue
		}
		if snap.KindOf(id) != KindPromo {
			n++
		}
	}
	return n
}

func (st SelectionState) selectedPromoFlavors(snap *Snapshot) map[PromoFlavor]bool {
	out := make(map[PromoFlavor]bool)
	for id := range st.SelectedIDs() {
		if snap.KindOf(id) != KindPromo {
			continue
		}
		if f := st.promoFlavorOfChoice(snap, id); f != PromoNone {
			out[f] = true
		}
	}
	return out
}

func onlyFlavors(flavors map[PromoFlavor]bool, allowed ...PromoFlavor) bool {
	for f := range flavors {
		ok := false
		for _, a := range allowed {
			if f == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// giftChildSelected reports whether the Cadeaux selection is an actual
// gift sub-choice rather than the bare parent.
func (st SelectionState) giftChildSelected(snap *Snapshot) bool {
	for id := range st.SelectedIDs() {
		c := snap.Choice(id)
		if c == nil || c.ParentID == nil {
			continue
		}
		parent := snap.Choice(*c.ParentID)
		if parent != nil && ClassifyPromo(parent.Label) == PromoCadeaux {
			return true
		}
	}
	return false
}

func (st SelectionState) hasPackKeyIn(snap *Snapshot, keys map[string]bool) bool {
	for id := range st.SelectedIDs() {
		c := snap.Choice(id)
		if c != nil && keys[c.Key] {
			return true
		}
	}
	return false
}

// validateInstallation enforces the bidirectional prerequisite: an
// installation line needs a Pack-Flex pack, and a Pack-Flex pack needs
// an installation line. The second direction only applies when the
// catalog actually offers an installation choice.
func (st SelectionState) validateInstallation(snap *Snapshot) *ValidationError {
	installSelected := false
	packFlexSelected := false
	for id := range st.SelectedIDs() {
		c := snap.Choice(id)
		if c == nil {
			continue
		}
		if IsInstallChoice(c, snap.SectionOf(id)) {
			installSelected = true
		}
		if snap.KindOf(id) == KindPack && IsPackFlexChoice(c) {
			packFlexSelected = true
		}
	}

	if installSelected && !packFlexSelected {
		return validationError("L'installation requiert un Pack Flex sélectionné.")
	}
	if packFlexSelected && !installSelected && snap.hasInstallChoice() {
		return validationError("Un Pack Flex requiert l'installation.")
	}
	return nil
}

func (s *Snapshot) hasInstallChoice() bool {
	for id, c := range s.choiceByID {
		if IsInstallChoice(c, s.SectionOf(id)) {
			return true
		}
	}
	return false
}

func (st SelectionState) hasDataPhoneSelection(snap *Snapshot) bool {
	for id := range st.SelectedIDs() {
		c := snap.Choice(id)
		if c != nil && IsDataPhoneChoice(c, snap.SectionOf(id)) {
			return true
		}
	}
	return false
}
