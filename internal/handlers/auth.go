package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eol-ict/onlyoo-backend/internal/middleware"
	"github.com/eol-ict/onlyoo-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("corps de requête invalide"))
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	expiresIn := int(ah.authService.AccessTTL().Seconds())
	RespondOK(c, gin.H{
		"token":      token,
		"expires_in": expiresIn,
		"user": gin.H{
			"id":         user.ID,
			"identifier": user.Identifier,
			"name":       user.Name,
			"role":       user.Role,
		},
	})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("jeton manquant ou invalide"))
		return
	}
	user, err := ah.authService.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":         user.ID,
		"identifier": user.Identifier,
		"email":      user.Email,
		"name":       user.Name,
		"role":       user.Role,
	})
}
