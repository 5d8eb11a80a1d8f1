package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"profile-hub/internal/domain"
)

// SessionTokenValidator valida los tokens de sesion emitidos por el proveedor de
// autenticacion externo. No emite tokens: cada request se revalida.
type SessionTokenValidator struct {
	secret   []byte
	issuer   string
	denylist SessionDenylist
}

// SessionClaims son los claims que el proveedor firma en el token de sesion.
type SessionClaims struct {
	Email     string `json:"email,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionRevoked = errors.New("session revoked")
)

func NewSessionTokenValidator(secret, issuer string, denylist SessionDenylist) *SessionTokenValidator {
	if denylist == nil {
		denylist = NewMemorySessionDenylist()
	}
	return &SessionTokenValidator{
		secret:   []byte(secret),
		issuer:   strings.TrimSpace(issuer),
		denylist: denylist,
	}
}

// Resolve devuelve el principal de un token valido y no revocado.
func (s *SessionTokenValidator) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Principal{}, err
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.sessionKey())
	if err != nil {
		// Sin poder comprobar la revocacion no se acepta la sesion.
		return domain.Principal{}, err
	}
	if revoked {
		return domain.Principal{}, ErrSessionRevoked
	}
	return domain.Principal{
		ID:        claims.Subject,
		Email:     claims.Email,
		SessionID: claims.sessionKey(),
	}, nil
}

// Revoke cierra la sesion del token hasta su expiracion.
func (s *SessionTokenValidator) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	key := claims.sessionKey()
	if key == "" {
		return ErrSessionInvalid
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.denylist.Revoke(ctx, key, ttl)
}

func (s *SessionTokenValidator) parse(tokenString string) (SessionClaims, error) {
	if len(s.secret) == 0 {
		return SessionClaims{}, ErrSessionInvalid
	}
	if strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrSessionInvalid
	}
	var claims SessionClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrSessionExpired
		}
		return SessionClaims{}, ErrSessionInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return SessionClaims{}, ErrSessionInvalid
	}
	return claims, nil
}

func (c SessionClaims) sessionKey() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return c.ID
}
