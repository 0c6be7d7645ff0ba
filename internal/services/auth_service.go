package services

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserIdentity struct {
	ID       uuid.UUID       `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// Authenticator verifies a credential pair against the identity store.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (*UserIdentity, error)
}

type passwordAuthenticator struct {
	userRepo repository.UserRepository
}

func NewPasswordAuthenticator(userRepo repository.UserRepository) Authenticator {
	return &passwordAuthenticator{userRepo: userRepo}
}

func (a *passwordAuthenticator) Authenticate(ctx context.Context, identifier, secret string) (*UserIdentity, error) {
	user, err := a.userRepo.GetByUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("auth.authenticate", "invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("auth.authenticate", "user is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return nil, apperr.Unauthorized("auth.authenticate", "invalid credentials")
	}
	return &UserIdentity{ID: user.ID, Username: user.Username, Role: models.UserRole(user.Role)}, nil
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(identity *UserIdentity) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, apperr.Unauthorized("auth.issue", "token signing is not configured")
	}
	now := t.now()
	exp := now.Add(t.ttl)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        identity.ID.String(),
		"username":   identity.Username,
		"role":       string(identity.Role),
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (t *TokenIssuer) Parse(tokenStr string) (*UserIdentity, error) {
	if len(t.secret) == 0 {
		return nil, apperr.Unauthorized("auth.parse", "token signing is not configured")
	}
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("auth.parse", "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "access" {
		return nil, apperr.Unauthorized("auth.parse", "invalid token")
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperr.Unauthorized("auth.parse", "invalid subject")
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return &UserIdentity{ID: id, Username: username, Role: models.UserRole(role)}, nil
}

type LoginResult struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserIdentity `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	CreateUser(ctx context.Context, username, password string, role models.UserRole) (*models.User, error)
	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	authenticator Authenticator
	issuer        *TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, authenticator Authenticator, issuer *TokenIssuer) AuthService {
	return &authService{userRepo: userRepo, authenticator: authenticator, issuer: issuer}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperr.Validation("auth.login", "username and password are required")
	}
	identity, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, exp, err := s.issuer.Issue(identity)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: identity}, nil
}

func (s *authService) CreateUser(ctx context.Context, username, password string, role models.UserRole) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, apperr.Validation("users.create", "username and a password of at least 8 characters are required")
	}
	if role != models.Admin && role != models.Staff {
		return nil, apperr.Validation("users.create", "unknown role")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, PasswordHash: hash, Role: string(role), IsActive: true}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Unauthorized("auth.current_user", "user is disabled")
	}
	return user, nil
}
