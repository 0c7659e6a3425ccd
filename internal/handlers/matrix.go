package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eol-ict/onlyoo-backend/internal/services"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

type MatrixHandler struct {
	matrixService services.MatrixService
}

func NewMatrixHandler(matrixService services.MatrixService) *MatrixHandler {
	return &MatrixHandler{matrixService: matrixService}
}

// Runtime serves the active catalog in the shape the quoting UI
// consumes: nested sections plus the rule and alert lists.
func (mh *MatrixHandler) Runtime(c *gin.Context) {
	snap, err := mh.matrixService.RuntimeSnapshot(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, snap)
}

func (mh *MatrixHandler) ListSections(c *gin.Context) {
	sections, err := mh.matrixService.ListSections(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, sections)
}

func (mh *MatrixHandler) CreateSection(c *gin.Context) {
	var section types.Section
	if err := c.ShouldBindJSON(&section); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	created, err := mh.matrixService.CreateSection(c.Request.Context(), &section)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (mh *MatrixHandler) UpdateSection(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	updated, err := mh.matrixService.UpdateSection(c.Request.Context(), id, fields)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (mh *MatrixHandler) DeleteSection(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mh.matrixService.DeleteSection(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (mh *MatrixHandler) CreateChoice(c *gin.Context) {
	var choice types.Choice
	if err := c.ShouldBindJSON(&choice); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	created, err := mh.matrixService.CreateChoice(c.Request.Context(), &choice)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (mh *MatrixHandler) UpdateChoice(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	updated, err := mh.matrixService.UpdateChoice(c.Request.Context(), id, fields)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (mh *MatrixHandler) DeleteChoice(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mh.matrixService.DeleteChoice(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (mh *MatrixHandler) ListRules(c *gin.Context) {
	rules, err := mh.matrixService.ListRules(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rules)
}

func (mh *MatrixHandler) CreateRule(c *gin.Context) {
	var rule types.Rule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	created, err := mh.matrixService.CreateRule(c.Request.Context(), &rule)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (mh *MatrixHandler) DeleteRule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mh.matrixService.DeleteRule(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (mh *MatrixHandler) ListAlerts(c *gin.Context) {
	alerts, err := mh.matrixService.ListAlerts(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, alerts)
}

func (mh *MatrixHandler) CreateAlert(c *gin.Context) {
	var alert types.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	created, err := mh.matrixService.CreateAlert(c.Request.Context(), &alert)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (mh *MatrixHandler) UpdateAlert(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}
	updated, err := mh.matrixService.UpdateAlert(c.Request.Context(), id, fields)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (mh *MatrixHandler) DeleteAlert(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := mh.matrixService.DeleteAlert(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("identifiant invalide"))
		return 0, false
	}
	return uint(v), true
}

func bindFields(c *gin.Context) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return nil, false
	}
	return fields, true
}
