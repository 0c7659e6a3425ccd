package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/mailer"
	"github.com/eol-ict/onlyoo-backend/internal/matrix"
	"github.com/eol-ict/onlyoo-backend/internal/platform/apierr"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type fakeMatrixService struct {
	MatrixService
	snap *matrix.Snapshot
}

func (f *fakeMatrixService) RuntimeSnapshot(ctx context.Context) (*matrix.Snapshot, error) {
	return f.snap, nil
}

type fakeQuoteRepo struct {
	created      *types.Quote
	statusByID   map[uuid.UUID]string
	stored       map[uuid.UUID]*types.Quote
	updateStatus error
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{
		statusByID: make(map[uuid.UUID]string),
		stored:     make(map[uuid.UUID]*types.Quote),
	}
}

func (f *fakeQuoteRepo) Create(ctx context.Context, tx *gorm.DB, quote *types.Quote) (*types.Quote, error) {
	quote.ID = uuid.New()
	f.created = quote
	f.stored[quote.ID] = quote
	return quote, nil
}

func (f *fakeQuoteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Quote, error) {
	q, ok := f.stored[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

func (f *fakeQuoteRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]types.Quote, error) {
	var out []types.Quote
	for _, q := range f.stored {
		out = append(out, *q)
	}
	return out, nil
}

func (f *fakeQuoteRepo) GetByAgentID(ctx context.Context, tx *gorm.DB, agentID uuid.UUID) ([]types.Quote, error) {
	var out []types.Quote
	for _, q := range f.stored {
		if q.AgentID == agentID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuoteRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	if f.updateStatus != nil {
		return f.updateStatus
	}
	f.statusByID[id] = status
	if q, ok := f.stored[id]; ok {
		q.Status = status
	}
	return nil
}

type fakeMailer struct {
	sent    []mailer.Message
	sendErr error
}

func (f *fakeMailer) Send(msg mailer.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

const (
	testPackID   = 1
	testGSMID    = 31
	testOptID    = 41
	testSoloID   = 51
	testSansID   = 91
	testPromo6ID = 92
)

func quoteTestSnapshot() *matrix.Snapshot {
	sections := []types.Section{
		{
			ID: 1, Key: "pack_type", Title: "Type de pack", Type: types.SectionSingle, SortOrder: 1, Active: true,
			Choices: []types.Choice{
				{ID: testPackID, SectionID: 1, Key: "flex_xs", Label: "Flex+ XS", PriceY1: 52.99, PriceY2: 57.99, SortOrder: 1, Active: true},
			},
		},
		{
			ID: 3, Key: "gsm_flex", Title: "GSM Flex", Type: types.SectionSingle, SortOrder: 3, Active: true,
			Choices: []types.Choice{
				{ID: testGSMID, SectionID: 3, Key: "flex_20", Label: "GSM Flex 20GB", PriceY1: 10, PriceY2: 10, SortOrder: 1, Active: true, AllowQty: true},
			},
		},
		{
			ID: 4, Key: "options", Title: "Options", Type: types.SectionMulti, SortOrder: 4, Active: true,
			Choices: []types.Choice{
				{ID: testOptID, SectionID: 4, Key: "data10", Label: "Data Extra 10GB", PriceY1: 10, PriceY2: 10, SortOrder: 1, Active: true},
			},
		},
	}
	return matrix.NewSnapshot(sections, nil, nil)
}

// quotePromoSnapshot extends the base catalog with a promotions section
// and a Solo pool, so the promotion-requirement rules are in play.
func quotePromoSnapshot() *matrix.Snapshot {
	sections := []types.Section{
		{
			ID: 3, Key: "gsm_flex", Title: "GSM Flex", Type: types.SectionSingle, SortOrder: 3, Active: true,
			Choices: []types.Choice{
				{ID: testGSMID, SectionID: 3, Key: "flex_20", Label: "GSM Flex 20GB", PriceY1: 10, PriceY2: 10, SortOrder: 1, Active: true, AllowQty: true},
			},
		},
		{
			ID: 5, Key: "gsm_solo", Title: "GSM Solo", Type: types.SectionSingle, SortOrder: 5, Active: true,
			Choices: []types.Choice{
				{ID: testSoloID, SectionID: 5, Key: "solo_20", Label: "GSM Solo 20GB", PriceY1: 18.15, PriceY2: 18.15, SortOrder: 1, Active: true, AllowQty: true},
			},
		},
		{
			ID: 6, Key: "promotions", Title: "Promotions", Type: types.SectionSingle, SortOrder: 6, Active: true,
			Choices: []types.Choice{
				{ID: testSansID, SectionID: 6, Key: "sans_promo", Label: "Sans promo", SortOrder: 1, Active: true},
				{ID: testPromo6ID, SectionID: 6, Key: "promo_6m", Label: "Promo 6 mois", SortOrder: 2, Active: true},
			},
		},
	}
	return matrix.NewSnapshot(sections, nil, nil)
}

func testQuoteServiceWith(t *testing.T, repo *fakeQuoteRepo, mail *fakeMailer, snap *matrix.Snapshot) QuoteService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewQuoteService(nil, log, repo, &fakeMatrixService{snap: snap}, mail)
}

func testQuoteService(t *testing.T, repo *fakeQuoteRepo, mail *fakeMailer) QuoteService {
	t.Helper()
	return testQuoteServiceWith(t, repo, mail, quoteTestSnapshot())
}

func testAgent() *Identity {
	return &Identity{UserID: uuid.New(), Identifier: "agent", Name: "Agent Smith", Role: types.RoleAgent}
}

func validSubmission() QuoteSubmission {
	return QuoteSubmission{
		Civility:      "Monsieur",
		LastName:      "Dupont",
		FirstName:     "Jean",
		CustomerEmail: "jean.dupont@exemple.com",
		CustomerPhone: "0470123456",
		ChoiceIDs:     []uint{testPackID},
		TotalY1:       52.99,
		TotalY2:       57.99,
	}
}

func TestBuildState(t *testing.T) {
	snap := quoteTestSnapshot()
	// choiceIds arrive as the union of plain and GSM ids, so the GSM id
	// shows up in both lists.
	st := BuildState(snap,
		[]uint{testPackID, testOptID, testGSMID, 999},
		[]QuoteItem{{ChoiceID: testGSMID, Qty: 2}, {ChoiceID: 998, Qty: 1}, {ChoiceID: testOptID, Qty: 0}})

	if got := st.Multi["pack_type"]; len(got) != 1 || got[0] != testPackID {
		t.Fatalf("pack selection = %v", got)
	}
	if got := st.Multi["options"]; len(got) != 1 || got[0] != testOptID {
		t.Fatalf("options selection = %v", got)
	}
	if got := st.Multi["gsm_flex"]; len(got) != 0 {
		t.Fatalf("gsm id leaked into plain selections: %v", got)
	}
	if st.Qty[testGSMID] != 2 {
		t.Fatalf("gsm qty = %d, want 2", st.Qty[testGSMID])
	}
	if _, ok := st.Qty[998]; ok {
		t.Fatal("unknown qty id should be dropped")
	}
	if _, ok := st.Qty[testOptID]; ok {
		t.Fatal("zero qty should be dropped")
	}
	selected := st.SelectedIDs()
	if selected[999] {
		t.Fatal("unknown plain id should be dropped")
	}
	if len(selected) != 3 {
		t.Fatalf("selected = %v, want 3 ids", selected)
	}
}

func TestBuildStateGSMIDWithoutItemRow(t *testing.T) {
	snap := quotePromoSnapshot()
	st := BuildState(snap, []uint{testSoloID}, nil)
	if st.Qty[testSoloID] != 1 {
		t.Fatalf("solo qty = %d, want 1 default", st.Qty[testSoloID])
	}
	if len(st.Multi) != 0 {
		t.Fatalf("plain selections = %v, want none", st.Multi)
	}
}

func TestSubmitSuccess(t *testing.T) {
	repo := newFakeQuoteRepo()
	mail := &fakeMailer{}
	svc := testQuoteService(t, repo, mail)
	agent := testAgent()

	result, err := svc.Submit(context.Background(), agent, validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.MailError != nil {
		t.Fatalf("unexpected mail error: %v", result.MailError)
	}
	if result.Quote.Status != types.QuoteMailSent {
		t.Fatalf("status = %q, want MAIL_SENT", result.Quote.Status)
	}
	if repo.created == nil {
		t.Fatal("quote was not persisted")
	}
	if repo.created.AgentID != agent.UserID {
		t.Fatalf("agent id = %v, want %v", repo.created.AgentID, agent.UserID)
	}
	if repo.created.TotalY1 != 52.99 || repo.created.TotalY2 != 57.99 {
		t.Fatalf("totals = %v / %v", repo.created.TotalY1, repo.created.TotalY2)
	}
	if len(repo.created.Selections) != 1 || repo.created.Selections[0].ChoiceID != testPackID {
		t.Fatalf("selections = %+v", repo.created.Selections)
	}
	if repo.created.CustomerName != "Monsieur Jean Dupont" {
		t.Fatalf("customer name = %q", repo.created.CustomerName)
	}
	if repo.created.EmailContent == "" {
		t.Fatal("email content not stored")
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0] != "jean.dupont@exemple.com" {
		t.Fatalf("mail = %+v", mail.sent)
	}
}

func TestSubmitKeepsQuoteOnMailFailure(t *testing.T) {
	repo := newFakeQuoteRepo()
	mail := &fakeMailer{sendErr: errors.New("connection refused")}
	svc := testQuoteService(t, repo, mail)

	result, err := svc.Submit(context.Background(), testAgent(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.MailError == nil {
		t.Fatal("expected mail error")
	}
	if result.Quote.Status != types.QuoteToSend {
		t.Fatalf("status = %q, want TO_SEND", result.Quote.Status)
	}
	if repo.created == nil || repo.created.ID == uuid.Nil {
		t.Fatal("quote must be persisted before delivery")
	}
	if got := repo.statusByID[result.Quote.ID]; got != "" {
		t.Fatalf("status flipped to %q despite delivery failure", got)
	}
}

func TestSubmitSoloOnlyWithoutPromotion(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteServiceWith(t, repo, &fakeMailer{}, quotePromoSnapshot())

	// Solo-only is exempt from the promotion requirement even though the
	// catalog carries a promotions section; the Solo id rides both
	// choiceIds and gsmItems like a real client payload.
	sub := validSubmission()
	sub.ChoiceIDs = []uint{testSoloID}
	sub.GSMItems = []QuoteItem{{ChoiceID: testSoloID, Qty: 1}}
	sub.TotalY1 = 18.15
	sub.TotalY2 = 18.15
	result, err := svc.Submit(context.Background(), testAgent(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Quote.TotalY1 != 18.15 {
		t.Fatalf("TotalY1 = %v, want 18.15", result.Quote.TotalY1)
	}
}

func TestSubmitFlexOnlyRejectsDisallowedPromotion(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteServiceWith(t, repo, &fakeMailer{}, quotePromoSnapshot())

	sub := validSubmission()
	sub.ChoiceIDs = []uint{testGSMID, testPromo6ID}
	sub.GSMItems = []QuoteItem{{ChoiceID: testGSMID, Qty: 2}}
	sub.TotalY1 = 15.00
	sub.TotalY2 = 15.00
	_, err := svc.Submit(context.Background(), testAgent(), sub)
	if err == nil {
		t.Fatal("expected Flex-only promotion restriction to fire")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("err = %v, want apierr 400", err)
	}
	want := "Avec un GSM Flex seul, seules les promotions Sans promo ou Avantage Multi sont autorisées."
	if apiErr.Err.Error() != want {
		t.Fatalf("message = %q, want %q", apiErr.Err.Error(), want)
	}
	if repo.created != nil {
		t.Fatal("rejected submission must not persist")
	}
}

func TestSubmitRejectsInvalidClient(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteService(t, repo, &fakeMailer{})

	sub := validSubmission()
	sub.CustomerEmail = "pas-un-email"
	_, err := svc.Submit(context.Background(), testAgent(), sub)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("err = %v, want apierr 400", err)
	}
	if repo.created != nil {
		t.Fatal("invalid submission must not persist")
	}
}

func TestSubmitKeepsDeclaredOverride(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteService(t, repo, &fakeMailer{})

	sub := validSubmission()
	sub.TotalY1 = 60.00 // manual commercial gesture, more than a rounding drift
	result, err := svc.Submit(context.Background(), testAgent(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Quote.TotalY1 != 60.00 {
		t.Fatalf("TotalY1 = %v, want declared 60.00 kept", result.Quote.TotalY1)
	}
}

func TestSubmitReplacesStaleDeclaredTotal(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteService(t, repo, &fakeMailer{})

	// Pack 52.99 + two Flex at 10 raises a 5.00 discount; a stale client
	// that missed it declares the undiscounted sums.
	sub := validSubmission()
	sub.GSMItems = []QuoteItem{{ChoiceID: testGSMID, Qty: 2}}
	sub.TotalY1 = 72.99
	sub.TotalY2 = 77.99
	result, err := svc.Submit(context.Background(), testAgent(), sub)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Quote.TotalY1 != 67.99 || result.Quote.TotalY2 != 72.99 {
		t.Fatalf("totals = %v / %v, want discounted 67.99 / 72.99", result.Quote.TotalY1, result.Quote.TotalY2)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeQuoteRepo()
	svc := testQuoteService(t, repo, &fakeMailer{})

	result, err := svc.Submit(context.Background(), testAgent(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	id := result.Quote.ID

	if err := svc.UpdateStatus(context.Background(), id, types.QuoteNeedFix); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if repo.statusByID[id] != types.QuoteNeedFix {
		t.Fatalf("status = %q", repo.statusByID[id])
	}

	err = svc.UpdateStatus(context.Background(), id, "BOGUS")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("err = %v, want apierr 400", err)
	}

	err = svc.UpdateStatus(context.Background(), uuid.New(), types.QuoteRejected)
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("err = %v, want apierr 404", err)
	}
}

func TestResend(t *testing.T) {
	repo := newFakeQuoteRepo()
	mail := &fakeMailer{sendErr: errors.New("boom")}
	svc := testQuoteService(t, repo, mail)

	result, err := svc.Submit(context.Background(), testAgent(), validSubmission())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	id := result.Quote.ID
	if result.Quote.Status != types.QuoteToSend {
		t.Fatalf("status = %q, want TO_SEND after failed dispatch", result.Quote.Status)
	}

	mail.sendErr = nil
	quote, err := svc.Resend(context.Background(), id)
	if err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if quote.Status != types.QuoteMailSent {
		t.Fatalf("status = %q, want MAIL_SENT", quote.Status)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(mail.sent))
	}
}
