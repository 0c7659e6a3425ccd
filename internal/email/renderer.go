package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/eol-ict/onlyoo-backend/internal/matrix"
)

// Line is one selection the renderer displays, denormalized so the
// renderer needs no catalog access.
type Line struct {
	Label        string
	Description  string
	SectionKey   string
	SectionTitle string
	ParentLabel  string
	Qty          int
	Y1           int64 // cents, net of any attributed discount
	Y2           int64
}

// Input is everything the renderer needs for one quote email.
type Input struct {
	CustomerName  string
	AgentName     string
	Lines         []Line
	TotalY1       int64 // cents
	TotalY2       int64
	DataPhoneNote string
}

// Rendered is the assembled message, both bodies sharing one subject.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

const (
	titleDefault = "Offre spéciale Onlyoo"
	titlePackGSM = "Contrat de mise en service Pack Proximus"
	titlePack    = "Contrat de mise en service du Pack Proximus"
	titleGSM     = "Contrat de mise en service du GSM Proximus"
)

// ContractTitle derives the email title from what the quote contains:
// pack plus GSM, pack only, GSM only, or the generic offer title.
func ContractTitle(lines []Line) string {
	hasGSM, hasPack := false, false
	for _, l := range lines {
		t := strings.ToLower(l.SectionTitle)
		k := strings.ToLower(l.SectionKey)
		if strings.Contains(t, "gsm") || strings.Contains(k, "gsm") {
			hasGSM = true
		}
		if strings.Contains(t, "pack") || strings.Contains(k, "pack") {
			hasPack = true
		}
	}
	switch {
	case hasGSM && hasPack:
		return titlePackGSM
	case hasPack:
		return titlePack
	case hasGSM:
		return titleGSM
	default:
		return titleDefault
	}
}

// FormatMoney renders cents with a decimal comma, French style.
func FormatMoney(cents int64) string {
	return strings.Replace(fmt.Sprintf("%.2f", matrix.Euros(cents)), ".", ",", 1)
}

func salutation(customerName string) (string, string) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return "Bonjour", "Client"
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "madame "):
		return "Chère Madame", name[len("Madame "):]
	case strings.HasPrefix(lower, "monsieur "):
		return "Cher Monsieur", name[len("Monsieur "):]
	case strings.HasPrefix(lower, "pro "):
		return "Bonjour", name[len("Pro "):]
	}
	return "Bonjour", name
}

func isPromoLine(l Line) bool {
	t := strings.ToLower(l.SectionTitle)
	k := strings.ToLower(l.SectionKey)
	return strings.Contains(t, "promotion") || strings.Contains(k, "promotion")
}

func isCadeauxLine(l Line) bool {
	return strings.Contains(strings.ToLower(l.Label), "cadeaux") ||
		strings.Contains(strings.ToLower(l.ParentLabel), "cadeaux")
}

func isInstallLine(l Line) bool {
	return strings.Contains(strings.ToLower(l.Label), "installation") ||
		strings.Contains(strings.ToLower(l.SectionKey), "installation") ||
		strings.Contains(strings.ToLower(l.SectionTitle), "installation")
}

func isDataPhoneLine(l Line) bool {
	k := strings.ToLower(l.SectionKey)
	t := strings.ToLower(l.SectionTitle)
	return strings.HasPrefix(strings.ToLower(l.Label), "data phone") ||
		strings.Contains(k, "data_phone") || strings.Contains(k, "dataphone") ||
		strings.Contains(t, "data phone") || strings.Contains(t, "dataphone")
}

func lineLabel(l Line) string {
	if l.Qty > 1 {
		return fmt.Sprintf("%s x%d", l.Label, l.Qty)
	}
	return l.Label
}

// split partitions the quote lines the way the customer sees them:
// promotions are hidden except gifts, installation and data phone get
// their own blocks.
func split(lines []Line) (main, gifts, install, dataPhones []Line) {
	for _, l := range lines {
		switch {
		case isInstallLine(l):
			install = append(install, l)
		case isDataPhoneLine(l):
			dataPhones = append(dataPhones, l)
		case isCadeauxLine(l):
			gifts = append(gifts, l)
		case isPromoLine(l):
			// hidden from the recap
		default:
			main = append(main, l)
		}
	}
	return main, gifts, install, dataPhones
}

// Render assembles the customer email. Layout is a plain nested-table
// HTML body; fidelity to the historical template is out of scope, the
// content contract (recap lines, gift block, totals, agent signature)
// is not.
func Render(in Input) Rendered {
	mainLines, gifts, install, dataPhones := split(in.Lines)
	subject := ContractTitle(in.Lines)
	greet, name := salutation(in.CustomerName)

	agent := in.AgentName
	if agent == "" {
		agent = "Conseiller"
	}

	var short []string
	for _, l := range append(append([]Line{}, mainLines...), gifts...) {
		short = append(short, lineLabel(l))
	}

	text := renderText(in, subject, greet, name, agent, short, mainLines, gifts, install, dataPhones)
	htmlBody := renderHTML(in, subject, greet, name, agent, mainLines, gifts, install, dataPhones)
	return Rendered{Subject: subject, HTML: htmlBody, Text: text}
}

func renderText(in Input, subject, greet, name, agent string, short []string, mainLines, gifts, install, dataPhones []Line) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n\n", subject, strings.Join(short, " + "))
	fmt.Fprintf(&b, "%s %s,\n\n", greet, name)
	b.WriteString("Voici le récapitulatif de votre nouvelle installation :\n\n")
	for _, l := range mainLines {
		b.WriteString("- " + lineLabel(l))
		if l.Description != "" {
			b.WriteString(" - " + l.Description)
		}
		b.WriteString("\n")
	}
	if len(dataPhones) > 0 {
		var labels []string
		for _, l := range dataPhones {
			labels = append(labels, lineLabel(l))
		}
		fmt.Fprintf(&b, "\nData Phone: %s", strings.Join(labels, " + "))
		if in.DataPhoneNote != "" {
			fmt.Fprintf(&b, " - %s", in.DataPhoneNote)
		}
		b.WriteString("\n")
	}
	if len(install) > 0 {
		var labels []string
		for _, l := range install {
			labels = append(labels, lineLabel(l))
		}
		fmt.Fprintf(&b, "\nInstallation: %s\n", strings.Join(labels, " + "))
	}
	if len(gifts) > 0 {
		b.WriteString("\nCadeaux:\n")
		for _, l := range gifts {
			b.WriteString("- " + lineLabel(l) + "\n")
		}
	}
	b.WriteString("\nTARIFICATION:\n")
	fmt.Fprintf(&b, "Année 1: %s€/mois\n", FormatMoney(in.TotalY1))
	fmt.Fprintf(&b, "Année 2: %s€/mois\n", FormatMoney(in.TotalY2))
	b.WriteString("\nPour finaliser, cliquez sur \"Bon pour accord\" dans le mail reçu.\n")
	fmt.Fprintf(&b, "\n---\n%s\nOnlyoo - Proximus Partner\nProximus@onlyoo.be | www.onlyoo.be\n", agent)
	return b.String()
}

func renderHTML(in Input, subject, greet, name, agent string, mainLines, gifts, install, dataPhones []Line) string {
	var b strings.Builder
	b.WriteString(`<table width="100%" border="0" cellpadding="0" cellspacing="0" style="font-family:Arial,sans-serif;color:#222;">`)
	fmt.Fprintf(&b, `<tr><td style="padding:16px 0;font-size:20px;font-weight:bold;">%s</td></tr>`, html.EscapeString(subject))
	fmt.Fprintf(&b, `<tr><td style="padding:8px 0;">%s %s,</td></tr>`, html.EscapeString(greet), html.EscapeString(name))
	b.WriteString(`<tr><td style="padding:8px 0;">Voici le récapitulatif de votre nouvelle installation :</td></tr>`)

	b.WriteString(`<tr><td><table width="100%" border="0" cellpadding="6" cellspacing="0">`)
	writeRows := func(lines []Line) {
		for _, l := range lines {
			desc := ""
			if l.Description != "" {
				desc = `<br/><span style="font-size:12px;color:#666;">` + html.EscapeString(l.Description) + `</span>`
			}
			fmt.Fprintf(&b,
				`<tr><td style="border-bottom:1px solid #eee;">%s%s</td>`+
					`<td align="right" style="border-bottom:1px solid #eee;white-space:nowrap;">%s€ / %s€</td></tr>`,
				html.EscapeString(lineLabel(l)), desc, FormatMoney(l.Y1), FormatMoney(l.Y2))
		}
	}
	writeRows(mainLines)
	writeRows(dataPhones)
	writeRows(install)
	b.WriteString(`</table></td></tr>`)

	if len(dataPhones) > 0 && in.DataPhoneNote != "" {
		fmt.Fprintf(&b, `<tr><td style="padding:8px 0;font-size:13px;">Data Phone : %s</td></tr>`, html.EscapeString(in.DataPhoneNote))
	}

	if len(gifts) > 0 {
		b.WriteString(`<tr><td style="padding:12px 0 4px;font-weight:bold;">Cadeaux</td></tr>`)
		b.WriteString(`<tr><td><table width="100%" border="0" cellpadding="4" cellspacing="0">`)
		for _, l := range gifts {
			fmt.Fprintf(&b, `<tr><td>%s</td></tr>`, html.EscapeString(lineLabel(l)))
		}
		b.WriteString(`</table></td></tr>`)
	}

	fmt.Fprintf(&b,
		`<tr><td style="padding:16px 0;"><table border="0" cellpadding="6" cellspacing="0">`+
			`<tr><td style="font-weight:bold;">Année 1</td><td align="right">%s€/mois</td></tr>`+
			`<tr><td style="font-weight:bold;">Année 2</td><td align="right">%s€/mois</td></tr>`+
			`</table></td></tr>`,
		FormatMoney(in.TotalY1), FormatMoney(in.TotalY2))

	b.WriteString(`<tr><td style="padding:8px 0;">Pour finaliser, cliquez sur &laquo; Bon pour accord &raquo; dans le mail reçu.</td></tr>`)
	fmt.Fprintf(&b,
		`<tr><td style="padding:16px 0;border-top:1px solid #ddd;font-size:13px;color:#555;">%s<br/>Onlyoo - Proximus Partner<br/>Proximus@onlyoo.be | www.onlyoo.be</td></tr>`,
		html.EscapeString(agent))
	b.WriteString(`</table>`)
	return b.String()
}
