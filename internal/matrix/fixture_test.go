package matrix

import "github.com/eol-ict/onlyoo-backend/internal/types"

// Choice ids used across the engine tests.
const (
	chPackXS       uint = 11 // Flex+ XS, internet allow-list
	chPackEasy     uint = 12 // Flex+ EASY, tv allow-list
	chPackGo       uint = 13 // GO, plain pack 50/60
	chSansPromo    uint = 21
	chCadeaux      uint = 22
	chGiftJBL      uint = 23 // child of chCadeaux
	chAvantage     uint = 24
	chPromo6M      uint = 25
	chPromo12M     uint = 26
	chMobileFlex   uint = 27
	chPremierMF    uint = 28
	chFlex20       uint = 31 // 10/10
	chFlex10       uint = 32
	chOptData      uint = 41
	chSolo20       uint = 51
	chRoaming      uint = 61 // SHOW_IF depends on chPackXS
	chDataExtra    uint = 62
	chDataPhone    uint = 71
	chInstallation uint = 81 // only in the installation fixture
)

func ptr(v uint) *uint { return &v }

func baseSections(packType string) []types.Section {
	return []types.Section{
		{ID: 1, Key: "pack_type", Title: "Type de pack", Type: packType, SortOrder: 1, Active: true, Choices: []types.Choice{
			{ID: chPackXS, SectionID: 1, Key: "flex_xs", Label: "Flex+ XS", PriceY1: 52.99, PriceY2: 57.99, SortOrder: 1, Active: true},
			{ID: chPackEasy, SectionID: 1, Key: "flex_easy", Label: "Flex+ EASY", PriceY1: 64.99, PriceY2: 84.99, SortOrder: 2, Active: true},
			{ID: chPackGo, SectionID: 1, Key: "pack_go", Label: "GO", PriceY1: 50, PriceY2: 60, SortOrder: 3, Active: true},
		}},
		{ID: 2, Key: "promotions", Title: "Promotions", Type: types.SectionSingle, SortOrder: 2, Active: true, Choices: []types.Choice{
			{ID: chSansPromo, SectionID: 2, Key: "sans_promo", Label: "Sans promo", SortOrder: 1, Active: true},
			{ID: chCadeaux, SectionID: 2, Key: "cadeaux", Label: "Cadeaux", PriceY1: 5, PriceY2: 5, SortOrder: 2, Active: true},
			{ID: chGiftJBL, SectionID: 2, Key: "cadeau_jbl", Label: "Casque JBL", PriceY1: 99, PriceY2: 99, SortOrder: 3, Active: true, ParentID: ptr(chCadeaux)},
			{ID: chAvantage, SectionID: 2, Key: "avantage_multi", Label: "Avantage Multi", SortOrder: 4, Active: true},
			{ID: chPromo6M, SectionID: 2, Key: "promo_6m", Label: "Promotion 6 mois", SortOrder: 5, Active: true},
			{ID: chPromo12M, SectionID: 2, Key: "promo_12m", Label: "Promotion 12 mois", SortOrder: 6, Active: true},
			{ID: chMobileFlex, SectionID: 2, Key: "promo_mobile_flex", Label: "Promotion Mobile Flex", SortOrder: 7, Active: true},
			{ID: chPremierMF, SectionID: 2, Key: "premier_mobile_flex", Label: "Promotion Premier Mobile Flex", SortOrder: 8, Active: true},
		}},
		{ID: 3, Key: "gsm_flex_main", Title: "GSM Flex", Type: types.SectionSingle, SortOrder: 3, Active: true, Choices: []types.Choice{
			{ID: chFlex20, SectionID: 3, Key: "gsm_flex_20", Label: "GSM Flex 20GB", PriceY1: 10, PriceY2: 10, SortOrder: 1, Active: true},
			{ID: chFlex10, SectionID: 3, Key: "gsm_flex_10", Label: "GSM Flex 10GB", PriceY1: 9.99, PriceY2: 9.99, SortOrder: 2, Active: true},
		}},
		{ID: 4, Key: "gsm_opt_main", Title: "GSM Options", Type: types.SectionSingle, SortOrder: 4, Active: true, Choices: []types.Choice{
			{ID: chOptData, SectionID: 4, Key: "gsm_opt_data", Label: "Option Data", PriceY1: 5, PriceY2: 5, SortOrder: 1, Active: true},
		}},
		{ID: 5, Key: "gsm_solo_main", Title: "GSM Solo", Type: types.SectionSingle, SortOrder: 5, Active: true, Choices: []types.Choice{
			{ID: chSolo20, SectionID: 5, Key: "gsm_solo_20", Label: "GSM Solo 20GB", PriceY1: 18.15, PriceY2: 18.15, SortOrder: 1, Active: true},
		}},
		{ID: 6, Key: "options", Title: "Options", Type: types.SectionMulti, SortOrder: 6, Active: true, Choices: []types.Choice{
			{ID: chRoaming, SectionID: 6, Key: "roaming", Label: "Roaming International", PriceY1: 5, PriceY2: 5, SortOrder: 1, Active: true},
			{ID: chDataExtra, SectionID: 6, Key: "data10", Label: "Data Extra 10GB", PriceY1: 10, PriceY2: 10, SortOrder: 2, Active: true},
		}},
		{ID: 7, Key: "data_phone", Title: "Data Phone", Type: types.SectionSingle, SortOrder: 7, Active: true, Choices: []types.Choice{
			{ID: chDataPhone, SectionID: 7, Key: "data_phone_128", Label: "Data Phone 128GB", PriceY1: 20, PriceY2: 20, SortOrder: 1, Active: true},
		}},
	}
}

func baseRules() []types.Rule {
	return []types.Rule{
		{ID: 1, Type: types.RuleShowIf, TargetID: chRoaming, DependsOnID: chPackXS, Message: "Option dispo si Flex+ XS"},
	}
}

// newTestSnapshot is the default catalog: single-select pack section,
// no installation choice.
func newTestSnapshot() *Snapshot {
	return NewSnapshot(baseSections(types.SectionSingle), baseRules(), nil)
}

// newMultiPackSnapshot makes the pack section multi-select so TV and
// Internet packs can coexist (Cadeaux co-selection tests).
func newMultiPackSnapshot() *Snapshot {
	return NewSnapshot(baseSections(types.SectionMulti), baseRules(), nil)
}

// newInstallSnapshot adds an installation section to the default
// catalog.
func newInstallSnapshot() *Snapshot {
	sections := append(baseSections(types.SectionSingle), types.Section{
		ID: 8, Key: "installation", Title: "Installation", Type: types.SectionSingle, SortOrder: 8, Active: true,
		Choices: []types.Choice{
			{ID: chInstallation, SectionID: 8, Key: "install_std", Label: "Installation standard", PriceY1: 59, SortOrder: 1, Active: true},
		},
	})
	return NewSnapshot(sections, baseRules(), nil)
}

func validClient() ClientInfo {
	return ClientInfo{
		Civility:  "Monsieur",
		LastName:  "Dupont",
		FirstName: "Jean",
		Email:     "jean.dupont@exemple.com",
		Phone:     "0470123456",
	}
}

func mustApplySingle(t interface {
	Helper()
	Fatalf(format string, args ...interface{})
}, snap *Snapshot, st SelectionState, sectionKey string, choiceID uint) SelectionState {
	t.Helper()
	next, err := st.ApplySingle(snap, sectionKey, choiceID)
	if err != nil {
		t.Fatalf("ApplySingle(%q, %d) rejected: %v", sectionKey, choiceID, err)
	}
	return next
}
