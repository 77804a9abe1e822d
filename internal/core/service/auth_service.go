package service

import (
	"context"
	"time"

	"taskdeck/internal/cache"
	"taskdeck/internal/core/apperr"
	"taskdeck/internal/core/model"
	"taskdeck/internal/core/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(email, password string) (*model.User, string, error)
	Authenticate(token string) *model.Principal
	Logout(token string)
	Register(name, email, password string, role model.Role) (*model.User, error)
	NeedsInitialization() (bool, error)
	InitializeAdmin(name, email, password string) (*model.User, error)
}

// tokenClaims is the credential payload: identity, email and role, plus the
// registered expiry.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

type authService struct {
	userRepo      repository.UserRepository
	revoked       *cache.Cache
	secret        []byte
	tokenValidity time.Duration
}

func NewAuthService(userRepo repository.UserRepository, revoked *cache.Cache, secret string, tokenValidity time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		revoked:       revoked,
		secret:        []byte(secret),
		tokenValidity: tokenValidity,
	}
}

// Login verifies email+password and issues a signed token. An unknown email
// and a wrong password are the same failure to the caller, so credentials
// cannot be enumerated.
func (s *authService) Login(email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.ErrInvalidInput
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Authenticate resolves a presented token into a principal, or nil. Every
// failure mode (missing, malformed, expired, bad signature, revoked)
// collapses to nil so the boundary cannot leak which one occurred.
func (s *authService) Authenticate(token string) *model.Principal {
	claims := s.parseToken(token)
	if claims == nil {
		return nil
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil
	}
	if s.isRevoked(token) {
		return nil
	}
	return &model.Principal{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
}

func (s *authService) parseToken(token string) *tokenClaims {
	if token == "" {
		return nil
	}
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}

func (s *authService) isRevoked(token string) bool {
	if !s.revoked.Enabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	found, err := s.revoked.Exists(ctx, revocationKey(token))
	if err != nil {
		// Best effort: an unreachable cache must not lock everyone out.
		return false
	}
	return found
}

// Logout revokes the token until its natural expiry. Without a cache this
// degrades to advisory logout: the client discards the token and it stays
// cryptographically valid until it expires.
func (s *authService) Logout(token string) {
	if !s.revoked.Enabled() {
		return
	}

	claims := s.parseToken(token)
	if claims == nil || claims.ExpiresAt == nil {
		return
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.revoked.Set(ctx, revocationKey(token), "1", remaining)
}

func revocationKey(token string) string {
	return "revoked:" + token
}

// Register creates an account via self-registration. Admin accounts are
// never created here: they come from bootstrap or from an existing admin.
func (s *authService) Register(name, email, password string, role model.Role) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.ErrInvalidInput
	}
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.ErrInvalidInput
	}
	if role == model.RoleAdmin {
		return nil, apperr.ErrForbidden
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	digest, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.NewUser(name, email, digest, role)
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// NeedsInitialization is true while zero admin accounts exist.
func (s *authService) NeedsInitialization() (bool, error) {
	count, err := s.userRepo.CountByRole(model.RoleAdmin)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// InitializeAdmin creates the first admin account. The no-admin check runs
// inside the store as a single conditional insert, so concurrent callers
// cannot both succeed.
func (s *authService) InitializeAdmin(name, email, password string) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.ErrInvalidInput
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrEmailTaken
	}

	digest, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := model.NewUser(name, email, digest, model.RoleAdmin)
	created, err := s.userRepo.CreateFirstAdmin(admin)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, apperr.ErrAlreadyInitialized
	}
	return admin, nil
}

func hashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}
