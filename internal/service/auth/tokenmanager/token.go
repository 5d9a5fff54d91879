package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/videohub/internal/apperrors"
	"github.com/nkiryanov/videohub/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID        `json:"uid"`
	Kind      models.TokenKind `json:"knd"`
}

// Token manager with sensible default
type Config struct {
	// Secret keys to sign access and refresh tokens
	// Required to be set and must differ
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type signer struct {
	key []byte
	ttl time.Duration
}

// TokenManager issues and verifies signed tokens. It keeps no state
// Whether a refresh token is still the current one is decided by the session owner
type TokenManager struct {
	alg     jwt.SigningMethod
	signers map[models.TokenKind]signer
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh secrets must not be empty")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg := jwt.GetSigningMethod(cfg.Alg)
	if _, ok := alg.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing method %q is not supported", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		alg: alg,
		signers: map[models.TokenKind]signer{
			models.TokenAccess:  {key: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
			models.TokenRefresh: {key: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		},
	}, nil
}

// Lifetime of tokens of the kind
func (m *TokenManager) TTL(kind models.TokenKind) time.Duration {
	return m.signers[kind].ttl
}

func (m *TokenManager) Issue(accountID uuid.UUID, kind models.TokenKind) (models.IssuedToken, error) {
	s, ok := m.signers[kind]
	if !ok {
		return models.IssuedToken{}, fmt.Errorf("unknown token kind %q", kind)
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			AccountID: accountID,
			Kind:      kind,
		},
	)
	value, err := token.SignedString(s.key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing %s token. Err: %w", kind, err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

func (m *TokenManager) IssuePair(accountID uuid.UUID) (models.TokenPair, error) {
	access, err := m.Issue(accountID, models.TokenAccess)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := m.Issue(accountID, models.TokenRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse and validate token of the expected kind
// Return apperrors.ErrTokenExpired if token is past it's expiry and apperrors.ErrTokenInvalid for any other failure
func (m *TokenManager) Verify(value string, kind models.TokenKind) (models.TokenClaims, error) {
	s, ok := m.signers[kind]
	if !ok {
		return models.TokenClaims{}, fmt.Errorf("unknown token kind %q", kind)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenClaims{}, apperrors.ErrTokenExpired
	default:
		return models.TokenClaims{}, fmt.Errorf("%w: %s", apperrors.ErrTokenInvalid, err.Error())
	}

	if claims.Kind != kind || claims.AccountID == uuid.Nil || claims.IssuedAt == nil {
		return models.TokenClaims{}, apperrors.ErrTokenInvalid
	}

	return models.TokenClaims{
		AccountID: claims.AccountID,
		Kind:      claims.Kind,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
