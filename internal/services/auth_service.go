package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"rt-portal/config"
	"rt-portal/internal/domain"
	"rt-portal/internal/domain/user"
	"rt-portal/internal/repository"
	portal_errors "rt-portal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and verifies access tokens. Login and registration
// screens live in the wider portal; chat only needs the authenticated actor.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	RtID  string `json:"rt_id,omitempty"`
}

type AccessClaims struct {
	Role string `json:"role"`
	RtID string `json:"rt_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the authenticated user a chat operation runs on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   domain.Role
	RtID   *string
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleRTAdmin
}

func ActorFromUser(u user.User) Actor {
	return Actor{UserID: u.ID, Role: domain.Role(u.Role), RtID: u.RtID}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResponse{}, portal_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, portal_errors.ErrNotFound) {
			return AuthResponse{}, portal_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}
	if !u.IsActive {
		return AuthResponse{}, portal_errors.ErrForbidden
	}
	if err := comparePassword(u.PasswordHash, password); err != nil {
		return AuthResponse{}, portal_errors.ErrUnauthorized
	}

	token, expiresIn, err := s.IssueAccessToken(u)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		User:        toUserInfo(u),
	}, nil
}

func (s *AuthService) IssueAccessToken(u user.User) (string, int64, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: u.Role,
		RtID: u.RtIDValue(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.accessTTL.Seconds()), nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, portal_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, portal_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, portal_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, portal_errors.ErrUnauthorized
	}
	return *claims, nil
}

// Authenticate resolves a bearer token to an Actor. Role and jurisdiction are
// read from the user row, so a token outlives neither a role change nor a
// deactivated account.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (Actor, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return Actor{}, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, portal_errors.ErrUnauthorized
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, portal_errors.ErrNotFound) {
			return Actor{}, portal_errors.ErrUnauthorized
		}
		return Actor{}, err
	}
	if !u.IsActive {
		return Actor{}, portal_errors.ErrForbidden
	}
	return ActorFromUser(u), nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, portal_errors.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, portal_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, portal_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, portal_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, portal_errors.ErrAlreadyExists), errors.Is(err, portal_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, portal_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, portal_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type ctxKey string

var actorKey ctxKey = "actor"

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	value := ctx.Value(actorKey)
	if value == nil {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return actor.UserID, true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func toUserInfo(u user.User) UserInfo {
	return UserInfo{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RtID:  u.RtIDValue(),
	}
}
