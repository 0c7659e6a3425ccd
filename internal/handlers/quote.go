package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eol-ict/onlyoo-backend/internal/middleware"
	"github.com/eol-ict/onlyoo-backend/internal/services"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type QuoteHandler struct {
	quoteService services.QuoteService
}

func NewQuoteHandler(quoteService services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create validates and persists a submission, then dispatches the
// customer email. A delivery failure still returns the persisted quote
// id so back-office can retry from the queue.
func (qh *QuoteHandler) Create(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("jeton manquant ou invalide"))
		return
	}
	var sub services.QuoteSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	result, err := qh.quoteService.Submit(c.Request.Context(), identity, sub)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if result.MailError != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"quoteId": result.Quote.ID,
			"status":  result.Quote.Status,
			"error":   "l'envoi de l'email a échoué, le devis est conservé",
		})
		return
	}
	RespondCreated(c, gin.H{
		"quoteId": result.Quote.ID,
		"status":  result.Quote.Status,
		"totalY1": result.Quote.TotalY1,
		"totalY2": result.Quote.TotalY2,
	})
}

// List returns every quote for back-office roles; agents only see
// their own.
func (qh *QuoteHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("jeton manquant ou invalide"))
		return
	}
	var (
		quotes []types.Quote
		err    error
	)
	if identity.Role == types.RoleAgent {
		quotes, err = qh.quoteService.ListForAgent(c.Request.Context(), identity.UserID)
	} else {
		quotes, err = qh.quoteService.ListAll(c.Request.Context())
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, quotes)
}

func (qh *QuoteHandler) Preview(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}
	rendered, quote, err := qh.quoteService.Preview(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"quoteId": quote.ID,
		"status":  quote.Status,
		"subject": rendered.Subject,
		"html":    rendered.HTML,
		"text":    rendered.Text,
	})
}

func (qh *QuoteHandler) Send(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}
	quote, err := qh.quoteService.Resend(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"quoteId": quote.ID, "status": quote.Status})
}

func (qh *QuoteHandler) UpdateStatus(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	if err := qh.quoteService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"quoteId": id, "status": req.Status})
}

// MarkSent flags a quote as delivered without dispatching anything,
// for mails sent manually from the back-office mailbox.
func (qh *QuoteHandler) MarkSent(c *gin.Context) {
	id, ok := quoteIDParam(c)
	if !ok {
		return
	}
	if err := qh.quoteService.MarkSent(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"quoteId": id, "status": types.QuoteMailSent})
}

func quoteIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("identifiant invalide"))
		return uuid.Nil, false
	}
	return id, true
}
