package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/email"
	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/mailer"
	"github.com/eol-ict/onlyoo-backend/internal/matrix"
	"github.com/eol-ict/onlyoo-backend/internal/platform/apierr"
	"github.com/eol-ict/onlyoo-backend/internal/repos"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// QuoteItem is one quantity entry of a submission.
type QuoteItem struct {
	ChoiceID uint `json:"choiceId"`
	Qty      int  `json:"qty"`
}

// QuoteSubmission is the agent's finalized quote as posted by the
// client. Totals are declared in euros and re-derived server-side.
type QuoteSubmission struct {
	Civility      string      `json:"civility"`
	LastName      string      `json:"lastName"`
	FirstName     string      `json:"firstName"`
	CustomerEmail string      `json:"customerEmail"`
	CustomerPhone string      `json:"customerPhone"`
	ChoiceIDs     []uint      `json:"choiceIds"`
	GSMItems      []QuoteItem `json:"gsmItems"`
	QtyItems      []QuoteItem `json:"qtyItems"`
	DataPhoneNote string      `json:"dataPhoneNote"`
	TotalY1       float64     `json:"totalY1"`
	TotalY2       float64     `json:"totalY2"`
	PackTypeLabel string      `json:"packTypeLabel"`
	AlertMessage  string      `json:"alertMessage"`
}

// SubmitResult is what the submission endpoint returns.
type SubmitResult struct {
	Quote     *types.Quote
	MailError error // non-nil when the quote persisted but delivery failed
}

type QuoteService interface {
	Submit(ctx context.Context, agent *Identity, sub QuoteSubmission) (*SubmitResult, error)
	ListForAgent(ctx context.Context, agentID uuid.UUID) ([]types.Quote, error)
	ListAll(ctx context.Context) ([]types.Quote, error)
	Preview(ctx context.Context, id uuid.UUID) (*email.Rendered, *types.Quote, error)
	Resend(ctx context.Context, id uuid.UUID) (*types.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkSent(ctx context.Context, id uuid.UUID) error
}

type quoteService struct {
	db            *gorm.DB
	log           *logger.Logger
	quoteRepo     repos.QuoteRepo
	matrixService MatrixService
	mail          mailer.Mailer
}

func NewQuoteService(db *gorm.DB, log *logger.Logger, quoteRepo repos.QuoteRepo, matrixService MatrixService, mail mailer.Mailer) QuoteService {
	serviceLog := log.With("service", "QuoteService")
	return &quoteService{
		db:            db,
		log:           serviceLog,
		quoteRepo:     quoteRepo,
		matrixService: matrixService,
		mail:          mail,
	}
}

// BuildState reconstructs an engine selection state from the submitted
// ids. The client posts choiceIds as the union of every selected id, so
// ids belonging to a GSM pool are quantity entries (qty 1 when no item
// row carries them) and must never count as plain selections; the rest
// are grouped by their owning section key so the validation battery sees
// the same shape the engine reducers produce. Unknown ids are dropped.
func BuildState(snap *matrix.Snapshot, plainIDs []uint, items []QuoteItem) matrix.SelectionState {
	st := matrix.NewSelectionState()
	for _, it := range items {
		if it.Qty <= 0 || snap.Choice(it.ChoiceID) == nil {
			continue
		}
		st.Qty[it.ChoiceID] = it.Qty
	}
	for _, id := range plainIDs {
		sec := snap.SectionOf(id)
		if sec == nil {
			continue
		}
		if snap.KindOf(id).GSM() {
			if _, ok := st.Qty[id]; !ok {
				st.Qty[id] = 1
			}
			continue
		}
		st.Multi[sec.Key] = append(st.Multi[sec.Key], id)
	}
	return st
}

// Submit re-derives pricing from authoritative prices, reconciles the
// declared totals, persists the quote and only then attempts delivery.
// A delivery failure never loses the quote: it stays TO_SEND and the
// caller gets the persisted id alongside the mail error.
func (qs *quoteService) Submit(ctx context.Context, agent *Identity, sub QuoteSubmission) (*SubmitResult, error) {
	snap, err := qs.matrixService.RuntimeSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	st := BuildState(snap, sub.ChoiceIDs, append(append([]QuoteItem{}, sub.GSMItems...), sub.QtyItems...))
	client := matrix.ClientInfo{
		Civility:  sub.Civility,
		LastName:  sub.LastName,
		FirstName: sub.FirstName,
		Email:     matrix.NormalizeEmail(sub.CustomerEmail),
		Phone:     matrix.NormalizeBeMobile(sub.CustomerPhone),
	}
	if vErr := matrix.Validate(snap, st, client, sub.DataPhoneNote); vErr != nil {
		return nil, apierr.New(http.StatusBadRequest, string(vErr.Kind), vErr)
	}

	totals := matrix.ComputeTotals(st, snap)
	y1 := matrix.ReconcileTotal(matrix.Cents(sub.TotalY1), totals.Y1+totals.Discount, totals.Y1)
	y2 := matrix.ReconcileTotal(matrix.Cents(sub.TotalY2), totals.Y2+totals.Discount, totals.Y2)
	if y1 != matrix.Cents(sub.TotalY1) || y2 != matrix.Cents(sub.TotalY2) {
		qs.log.Warn("Client totals reconciled",
			"agent_id", agent.UserID.String(),
			"declared_y1", sub.TotalY1, "reconciled_y1", matrix.Euros(y1),
			"declared_y2", sub.TotalY2, "reconciled_y2", matrix.Euros(y2))
	}

	items := matrix.LineItems(st, snap)
	packLabel := sub.PackTypeLabel
	if packLabel == "" {
		if pack := st.PackChoice(snap); pack != nil {
			packLabel = pack.Label
		}
	}
	alertMsg := sub.AlertMessage
	if alertMsg == "" {
		alertMsg = matrix.ComputedAlert(packLabel, st.GSMTotals(snap).Flex+st.GSMTotals(snap).Opt+st.GSMTotals(snap).Solo > 0)
	}

	customerName := strings.TrimSpace(sub.Civility + " " + strings.TrimSpace(sub.FirstName+" "+sub.LastName))
	rendered := email.Render(email.Input{
		CustomerName:  customerName,
		AgentName:     agent.Name,
		Lines:         toEmailLines(snap, items),
		TotalY1:       y1,
		TotalY2:       y2,
		DataPhoneNote: strings.TrimSpace(sub.DataPhoneNote),
	})

	quote := &types.Quote{
		AgentID:       agent.UserID,
		CustomerName:  customerName,
		CustomerEmail: client.Email,
		CustomerPhone: client.Phone,
		TotalY1:       matrix.Euros(y1),
		TotalY2:       matrix.Euros(y2),
		Status:        types.QuoteToSend,
		EmailContent:  rendered.HTML,
		DataPhoneNote: strings.TrimSpace(sub.DataPhoneNote),
		PackTypeLabel: packLabel,
		AlertMessage:  alertMsg,
	}
	for _, it := range items {
		quote.Selections = append(quote.Selections, types.Selection{ChoiceID: it.ChoiceID, Qty: it.Qty})
	}

	if _, err := qs.quoteRepo.Create(ctx, nil, quote); err != nil {
		return nil, fmt.Errorf("failed to persist quote: %w", err)
	}
	qs.log.Info("Quote persisted", "quote_id", quote.ID.String(), "agent_id", agent.UserID.String())

	if mErr := qs.mail.Send(mailer.Message{
		To:      []string{client.Email},
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	}); mErr != nil {
		qs.log.Error("Quote email delivery failed, quote kept TO_SEND", "quote_id", quote.ID.String(), "error", mErr)
		return &SubmitResult{Quote: quote, MailError: mErr}, nil
	}

	if err := qs.quoteRepo.UpdateStatus(ctx, nil, quote.ID, types.QuoteMailSent); err != nil {
		qs.log.Error("Failed to flag quote MAIL_SENT", "quote_id", quote.ID.String(), "error", err)
	} else {
		quote.Status = types.QuoteMailSent
	}
	return &SubmitResult{Quote: quote}, nil
}

func (qs *quoteService) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]types.Quote, error) {
	return qs.quoteRepo.GetByAgentID(ctx, nil, agentID)
}

func (qs *quoteService) ListAll(ctx context.Context) ([]types.Quote, error) {
	return qs.quoteRepo.GetAll(ctx, nil)
}

// Preview re-renders the email from the persisted rows rather than
// returning the stored HTML, so back-office always sees what a resend
// would produce.
func (qs *quoteService) Preview(ctx context.Context, id uuid.UUID) (*email.Rendered, *types.Quote, error) {
	quote, err := qs.getQuote(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rendered := qs.render(quote)
	return &rendered, quote, nil
}

// Resend re-renders and re-dispatches a persisted quote. Success flips
// the status to MAIL_SENT; failure leaves it untouched.
func (qs *quoteService) Resend(ctx context.Context, id uuid.UUID) (*types.Quote, error) {
	quote, err := qs.getQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	rendered := qs.render(quote)
	if mErr := qs.mail.Send(mailer.Message{
		To:      []string{quote.CustomerEmail},
		Subject: rendered.Subject,
		HTML:    rendered.HTML,
		Text:    rendered.Text,
	}); mErr != nil {
		return quote, apierr.New(http.StatusBadGateway, "mail_failed", mErr)
	}
	if err := qs.quoteRepo.UpdateStatus(ctx, nil, quote.ID, types.QuoteMailSent); err != nil {
		return quote, err
	}
	quote.Status = types.QuoteMailSent
	return quote, nil
}

func (qs *quoteService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !types.ValidQuoteStatus(status) {
		return apierr.New(http.StatusBadRequest, "invalid_status", fmt.Errorf("statut inconnu: %s", status))
	}
	if _, err := qs.getQuote(ctx, id); err != nil {
		return err
	}
	return qs.quoteRepo.UpdateStatus(ctx, nil, id, status)
}

func (qs *quoteService) MarkSent(ctx context.Context, id uuid.UUID) error {
	return qs.UpdateStatus(ctx, id, types.QuoteMailSent)
}

func (qs *quoteService) getQuote(ctx context.Context, id uuid.UUID) (*types.Quote, error) {
	quote, err := qs.quoteRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "quote_not_found", err)
		}
		return nil, err
	}
	return quote, nil
}

func (qs *quoteService) render(quote *types.Quote) email.Rendered {
	agentName := ""
	if quote.Agent != nil {
		agentName = quote.Agent.Name
	}
	return email.Render(email.Input{
		CustomerName:  quote.CustomerName,
		AgentName:     agentName,
		Lines:         linesFromSelections(quote),
		TotalY1:       matrix.Cents(quote.TotalY1),
		TotalY2:       matrix.Cents(quote.TotalY2),
		DataPhoneNote: quote.DataPhoneNote,
	})
}

func toEmailLines(snap *matrix.Snapshot, items []matrix.LineItem) []email.Line {
	lines := make([]email.Line, 0, len(items))
	for _, it := range items {
		line := email.Line{
			Label:        it.Label,
			SectionTitle: it.SectionTitle,
			Qty:          it.Qty,
			Y1:           it.Y1,
			Y2:           it.Y2,
		}
		if c := snap.Choice(it.ChoiceID); c != nil {
			line.Description = c.Description
			if c.ParentID != nil {
				if parent := snap.Choice(*c.ParentID); parent != nil {
					line.ParentLabel = parent.Label
				}
			}
		}
		if sec := snap.SectionOf(it.ChoiceID); sec != nil {
			line.SectionKey = sec.Key
		}
		lines = append(lines, line)
	}
	return lines
}

// linesFromSelections rebuilds renderer lines from persisted selection
// rows; per-line prices here are gross (the reconciled totals are
// stored on the quote itself).
func linesFromSelections(quote *types.Quote) []email.Line {
	var lines []email.Line
	for _, sel := range quote.Selections {
		if sel.Choice == nil {
			continue
		}
		line := email.Line{
			Label:       sel.Choice.Label,
			Description: sel.Choice.Description,
			Qty:         sel.Qty,
			Y1:          matrix.Cents(sel.Choice.PriceY1) * int64(sel.Qty),
			Y2:          matrix.Cents(sel.Choice.PriceY2) * int64(sel.Qty),
		}
		if sel.Choice.Section != nil {
			line.SectionKey = sel.Choice.Section.Key
			line.SectionTitle = sel.Choice.Section.Title
		}
		if sel.Choice.Parent != nil {
			line.ParentLabel = sel.Choice.Parent.Label
		}
		lines = append(lines, line)
	}
	return lines
}
