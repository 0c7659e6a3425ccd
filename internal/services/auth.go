package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/platform/apierr"
	"github.com/eol-ict/onlyoo-backend/internal/repos"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// Identity is what a parsed token resolves to; handlers and middleware
// read roles from here, never from the raw claims.
type Identity struct {
	UserID     uuid.UUID
	Identifier string
	Name       string
	Role       string
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (string, *types.User, error)
	ParseToken(tokenString string) (*Identity, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
	AccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

type accessClaims struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Login accepts the agent identifier or the email address. The same
// error comes back for an unknown login and a wrong password.
func (as *authService) Login(ctx context.Context, login, password string) (string, *types.User, error) {
	login = strings.TrimSpace(strings.ToLower(login))
	if login == "" || password == "" {
		return "", nil, apierr.New(http.StatusBadRequest, "missing_credentials", errors.New("identifiant et mot de passe requis"))
	}

	user, err := as.userRepo.GetByLogin(ctx, nil, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("identifiants invalides"))
		}
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Active {
		return "", nil, apierr.New(http.StatusForbidden, "account_disabled", errors.New("compte désactivé"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("identifiants invalides"))
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	as.log.Info("User logged in", "user_id", user.ID.String(), "role", user.Role)
	return token, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Identifier: user.Identifier,
		Name:       user.Name,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) ParseToken(tokenString string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", err)
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", errors.New("invalid token claims"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("bad subject: %w", err))
	}
	return &Identity{
		UserID:     userID,
		Identifier: claims.Identifier,
		Name:       claims.Name,
		Role:       claims.Role,
	}, nil
}

func (as *authService) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "user_not_found", err)
		}
		return nil, err
	}
	return user, nil
}

func (as *authService) AccessTTL() time.Duration {
	return as.accessTTL
}
