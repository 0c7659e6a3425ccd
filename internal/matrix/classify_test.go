package matrix

import "testing"

func TestClassifySection(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		title string
		want  SectionKind
	}{
		{name: "flex_key_prefix", key: "gsm_flex_main", title: "GSM", want: KindFlex},
		{name: "opt_key_prefix", key: "gsm_opt_main", title: "GSM", want: KindOpt},
		{name: "solo_key_prefix", key: "gsm_solo_main", title: "GSM", want: KindSolo},
		{name: "flex_title_fallback", key: "mobiles", title: "GSM Flex", want: KindFlex},
		{name: "solo_title_fallback", key: "mobiles", title: "GSM Solo", want: KindSolo},
		{name: "opt_title_fallback", key: "mobiles", title: "Options GSM", want: KindOpt},
		{name: "solo_beats_flex_in_title", key: "mobiles", title: "GSM Flex Solo", want: KindSolo},
		{name: "promotion_key", key: "promotions", title: "Avantages", want: KindPromo},
		{name: "promotion_title", key: "avantages", title: "Promotions du mois", want: KindPromo},
		{name: "pack_type", key: "pack_type", title: "Type de pack", want: KindPack},
		{name: "pack_token", key: "offres", title: "Pack Flex", want: KindPack},
		{name: "installation", key: "installation", title: "Installation", want: KindInstall},
		{name: "data_phone", key: "data_phone", title: "Data Phone", want: KindDataPhone},
		{name: "other", key: "options", title: "Options fixes", want: KindOther},
		{name: "empty", key: "", title: "", want: KindOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifySection(tc.key, tc.title)
			if got != tc.want {
				t.Fatalf("ClassifySection(%q, %q)=%v, want %v", tc.key, tc.title, got, tc.want)
			}
		})
	}
}

func TestClassifyPromo(t *testing.T) {
	cases := []struct {
		label string
		want  PromoFlavor
	}{
		{label: "", want: PromoNone},
		{label: "Sans promo", want: PromoSans},
		{label: "Cadeaux", want: PromoCadeaux},
		{label: "Avantage Multi", want: PromoAvantageMulti},
		{label: "Promotion Mobile Flex", want: PromoMobileFlex},
		{label: "Promotion Premier Mobile Flex", want: PromoPremierMobileFlex},
		{label: "Promotion 6 mois", want: PromoSixMois},
		{label: "Promo 6mois", want: PromoSixMois},
		{label: "Promotion 12 mois", want: PromoDouzeMois},
		{label: "Remise fidélité", want: PromoOtherFlavor},
	}

	for _, tc := range cases {
		if got := ClassifyPromo(tc.label); got != tc.want {
			t.Fatalf("ClassifyPromo(%q)=%v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestComputedPackType(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{label: "", want: ""},
		{label: "GO", want: "Internet Seul"},
		{label: "Flex+ XS", want: "Internet + mobiles"},
		{label: "Flex+ S", want: "Internet TV mobiles"},
		{label: "Inconnu", want: ""},
	}

	for _, tc := range cases {
		if got := ComputedPackType(tc.label); got != tc.want {
			t.Fatalf("ComputedPackType(%q)=%q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestComputedAlert(t *testing.T) {
	cases := []struct {
		name        string
		label       string
		gsmSelected bool
		want        string
	}{
		{name: "no_pack", label: "", gsmSelected: false, want: "Offre financière"},
		{name: "xs_forbidden", label: "Flex+ XS", gsmSelected: true, want: "Offre Cadeau Interdite XS!"},
		{name: "flex_s_without_gsm", label: "Flex+ S", gsmSelected: false, want: "Offre Cadeau Interdite Sans GSM!"},
		{name: "flex_s_with_gsm", label: "Flex+ S", gsmSelected: true, want: "Informer le client de l'avance et de l'IBAN"},
		{name: "plain_pack", label: "GO", gsmSelected: false, want: "Offre financière"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputedAlert(tc.label, tc.gsmSelected)
			if got != tc.want {
				t.Fatalf("ComputedAlert(%q, %v)=%q, want %q", tc.label, tc.gsmSelected, got, tc.want)
			}
		})
	}
}

func TestChoiceLevelClassifiers(t *testing.T) {
	snap := newInstallSnapshot()

	install := snap.Choice(chInstallation)
	if !IsInstallChoice(install, snap.SectionOf(chInstallation)) {
		t.Fatalf("expected installation choice to classify as install")
	}
	if IsInstallChoice(snap.Choice(chPackGo), snap.SectionOf(chPackGo)) {
		t.Fatalf("GO pack must not classify as install")
	}

	if !IsDataPhoneChoice(snap.Choice(chDataPhone), snap.SectionOf(chDataPhone)) {
		t.Fatalf("expected data phone choice to classify as data phone")
	}
	if IsDataPhoneChoice(snap.Choice(chFlex20), snap.SectionOf(chFlex20)) {
		t.Fatalf("flex choice must not classify as data phone")
	}

	if !IsPackFlexChoice(snap.Choice(chPackXS)) {
		t.Fatalf("Flex+ XS is a pack-flex choice")
	}
	if IsPackFlexChoice(snap.Choice(chPackGo)) {
		t.Fatalf("GO is not a pack-flex choice")
	}
}
