package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/metrics"
	"github.com/nkiryanov/videohub/internal/models"
	"github.com/nkiryanov/videohub/internal/repository"
)

const (
	defaultAccessCookieName    = "accessToken"
	defaultRefreshCookieName   = "refreshToken"
	defaultAccessHeaderName    = "Authorization"
	defaultAccessAuthScheme    = "Bearer"
	defaultRefreshHeaderName   = "X-Refresh-Token"
	dummyPasswordForTimingSafe = "timing-safe-dummy-password"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type tokenManager interface {
	IssuePair(accountID uuid.UUID) (models.TokenPair, error)
	Verify(value string, kind models.TokenKind) (models.TokenClaims, error)
}

type Config struct {
	// Hasher to use during login or password change
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Names of cookies and headers tokens are written to and read from
	AccessCookieName  string
	RefreshCookieName string
	AccessHeaderName  string
	AccessAuthScheme  string
	RefreshHeaderName string

	// Allow cookies over plain http. Local development only
	InsecureCookies bool
}

// Session manager
// Account has at most one active session: the refresh token stored on the account
type AuthService struct {
	hasher PasswordHasher
	tokens tokenManager
	repo   repository.AccountRepo

	accessCookieName  string
	refreshCookieName string
	accessHeaderName  string
	accessAuthScheme  string
	refreshHeaderName string
	secureCookies     bool

	// Hash compared against when account not found, so both failures take the same time
	dummyHash func() (string, error)
}

func NewService(cfg Config, tokens tokenManager, repo repository.AccountRepo) (*AuthService, error) {
	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher
	}

	setDefault := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefault(&cfg.AccessCookieName, defaultAccessCookieName)
	setDefault(&cfg.RefreshCookieName, defaultRefreshCookieName)
	setDefault(&cfg.AccessHeaderName, defaultAccessHeaderName)
	setDefault(&cfg.AccessAuthScheme, defaultAccessAuthScheme)
	setDefault(&cfg.RefreshHeaderName, defaultRefreshHeaderName)

	if cfg.AccessCookieName == cfg.RefreshCookieName {
		return nil, errors.New("access and refresh cookie names must differ")
	}

	hasher := cfg.Hasher
	return &AuthService{
		hasher:            hasher,
		tokens:            tokens,
		repo:              repo,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		accessHeaderName:  cfg.AccessHeaderName,
		accessAuthScheme:  cfg.AccessAuthScheme,
		refreshHeaderName: cfg.RefreshHeaderName,
		secureCookies:     !cfg.InsecureCookies,
		dummyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(dummyPasswordForTimingSafe)
		}),
	}, nil
}

// Login by email (identifier contains '@') or username
// Unknown account and wrong password are both reported as apperrors.ErrInvalidCredential
// On success previous session of the account is revoked
func (s *AuthService) Login(ctx context.Context, identifier string, password string) (models.Account, models.TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var account models.Account
	var err error
	if strings.Contains(identifier, "@") {
		account, err = s.repo.GetByEmail(ctx, identifier)
	} else {
		account, err = s.repo.GetByUsername(ctx, identifier)
	}

	switch {
	case err == nil:
		err = s.hasher.Compare(account.HashedPassword, password)
	case errors.Is(err, apperrors.ErrAccountNotFound):
		if hash, hashErr := s.dummyHash(); hashErr == nil {
			_ = s.hasher.Compare(hash, password)
		}
	default:
		metrics.RecordAuth(metrics.AuthEventLogin, metrics.AuthResultError)
		return models.Account{}, models.TokenPair{}, fmt.Errorf("can't load account. Err: %w", err)
	}
	if err != nil {
		metrics.RecordAuth(metrics.AuthEventLogin, metrics.AuthResultRejected)
		return models.Account{}, models.TokenPair{}, apperrors.ErrInvalidCredential
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return models.Account{}, models.TokenPair{}, fmt.Errorf("token could not generated, sorry. Err: %w", err)
	}

	if err := s.repo.SetRefreshToken(ctx, account.ID, &pair.Refresh.Value); err != nil {
		metrics.RecordAuth(metrics.AuthEventLogin, metrics.AuthResultError)
		return models.Account{}, models.TokenPair{}, fmt.Errorf("can't store refresh token. Err: %w", err)
	}
	account.RefreshToken = &pair.Refresh.Value

	metrics.RecordAuth(metrics.AuthEventLogin, metrics.AuthResultSuccess)
	return account, pair, nil
}

// Rotate token pair. Refresh token is single use:
// presenting it after rotation or logout fails with apperrors.ErrSessionRevoked
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	claims, err := s.tokens.Verify(refresh, models.TokenRefresh)
	if err != nil {
		metrics.RecordAuth(metrics.AuthEventRefresh, metrics.AuthResultRejected)
		return models.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(claims.AccountID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not generated, sorry. Err: %w", err)
	}

	err = s.repo.SwapRefreshToken(ctx, claims.AccountID, refresh, pair.Refresh.Value)
	switch {
	case err == nil:
		metrics.RecordAuth(metrics.AuthEventRefresh, metrics.AuthResultSuccess)
		return pair, nil
	case errors.Is(err, apperrors.ErrSessionRevoked):
		metrics.RecordAuth(metrics.AuthEventRefresh, metrics.AuthResultRejected)
		return models.TokenPair{}, err
	default:
		metrics.RecordAuth(metrics.AuthEventRefresh, metrics.AuthResultError)
		return models.TokenPair{}, fmt.Errorf("can't rotate refresh token. Err: %w", err)
	}
}

// Revoke the session. Issued access tokens stay valid until they expire
func (s *AuthService) Logout(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.SetRefreshToken(ctx, accountID, nil); err != nil {
		metrics.RecordAuth(metrics.AuthEventLogout, metrics.AuthResultError)
		return fmt.Errorf("can't clear refresh token. Err: %w", err)
	}

	metrics.RecordAuth(metrics.AuthEventLogout, metrics.AuthResultSuccess)
	return nil
}

// Return account the access token was issued for
func (s *AuthService) Authenticate(ctx context.Context, access string) (models.Account, error) {
	claims, err := s.tokens.Verify(access, models.TokenAccess)
	if err != nil {
		return models.Account{}, err
	}

	account, err := s.repo.GetByID(ctx, claims.AccountID)
	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return models.Account{}, apperrors.ErrTokenInvalid
	default:
		return models.Account{}, fmt.Errorf("can't load account. Err: %w", err)
	}
}

// Verify old password, store the new one and revoke the session
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, oldPassword string, newPassword string) error {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(account.HashedPassword, oldPassword); err != nil {
		return apperrors.ErrInvalidCredential
	}
	if oldPassword == newPassword {
		return apperrors.ErrPasswordReuse
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password. Err: %w", err)
	}

	return s.repo.UpdatePassword(ctx, accountID, hash)
}

// Auth request using access token from header or cookie
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.Account, error) {
	access, err := s.GetAccess(r)
	if err != nil {
		return models.Account{}, err
	}

	return s.Authenticate(ctx, access)
}

// Write tokens to response: both as cookies, access also as authorization header
func (s *AuthService) SetTokens(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.cookie(s.accessCookieName, pair.Access))
	http.SetCookie(w, s.cookie(s.refreshCookieName, pair.Refresh))
	w.Header().Set(s.accessHeaderName, s.accessAuthScheme+" "+pair.Access.Value)
}

// Expire both token cookies
func (s *AuthService) ClearTokens(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
			Secure:   s.secureCookies,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// Read access token from authorization header, fallback to cookie
func (s *AuthService) GetAccess(r *http.Request) (string, error) {
	header := r.Header.Get(s.accessHeaderName)
	if value, ok := strings.CutPrefix(header, s.accessAuthScheme+" "); ok && value != "" {
		return value, nil
	}

	cookie, err := r.Cookie(s.accessCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", fmt.Errorf("%w: access token not provided", apperrors.ErrTokenInvalid)
}

// Read refresh token from cookie, fallback to header
func (s *AuthService) GetRefresh(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if value := r.Header.Get(s.refreshHeaderName); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("%w: refresh token not provided", apperrors.ErrTokenInvalid)
}

func (s *AuthService) cookie(name string, token models.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
