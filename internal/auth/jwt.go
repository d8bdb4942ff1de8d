// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/salescrm/internal/config"
	"github.com/carterperez-dev/salescrm/internal/core"
	"github.com/carterperez-dev/salescrm/internal/middleware"
)

const refreshTokenBytes = 32

// JWTManager signs ES256 access tokens with a single PEM private key and
// publishes the derived public key as a JWKS document.
type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
	now        func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	var kid string
	if getErr := privateKey.Get(jwk.KeyIDKey, &kid); getErr != nil || kid == "" {
		if setErr := privateKey.Set(jwk.KeyIDKey, uuid.New().String()[:8]); setErr != nil {
			return nil, fmt.Errorf("set key id: %w", setErr)
		}
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if setErr := publicKey.Set(jwk.KeyUsageKey, "sig"); setErr != nil {
		return nil, fmt.Errorf("set key usage: %w", setErr)
	}

	publicJWKS := jwk.NewSet()
	if addErr := publicJWKS.AddKey(publicKey); addErr != nil {
		return nil, fmt.Errorf("add key to set: %w", addErr)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		publicJWKS: publicJWKS,
		config:     cfg,
		now:        time.Now,
	}, nil
}

// EnsureSigningKey writes a fresh P-256 private key to path unless a file is
// already there.
func EnsureSigningKey(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat private key: %w", err)
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return false, fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return false, fmt.Errorf("import private key: %w", err)
	}

	if setErr := jwkPrivate.Set(jwk.KeyIDKey, uuid.New().String()[:8]); setErr != nil {
		return false, fmt.Errorf("set key id: %w", setErr)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return false, fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(path, privatePEM, 0o600); writeErr != nil {
		return false, fmt.Errorf("write private key: %w", writeErr)
	}

	return true, nil
}

type AccessTokenClaims struct {
	UserID       string
	TokenVersion int
}

type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateAccessToken(claims AccessTokenClaims) (*IssuedToken, error) {
	now := m.now()
	jti := uuid.New().String()
	expiresAt := now.Add(m.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(jti).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim("token_version", claims.TokenVersion).
		Claim("type", "access").
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		ID:        jti,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseAccessToken checks signature, issuer, audience and lifetime. It does
// not consult the revocation list; Service.VerifyAccessToken does.
func (m *JWTManager) ParseAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.Principal, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil || tokenType != "access" {
		return nil, fmt.Errorf("verify token: invalid token type: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf("verify token: missing subject: %w", core.ErrTokenInvalid)
	}

	jti, ok := token.JwtID()
	if !ok || jti == "" {
		return nil, fmt.Errorf("verify token: missing jti: %w", core.ErrTokenInvalid)
	}

	var version float64
	if err := token.Get("token_version", &version); err != nil {
		return nil, fmt.Errorf("verify token: missing token_version claim: %w", core.ErrTokenInvalid)
	}

	expiresAt, _ := token.Expiration()

	return &middleware.Principal{
		UserID:       subject,
		TokenID:      jti,
		TokenVersion: int(version),
		ExpiresAt:    expiresAt,
	}, nil
}

func isTokenExpiredError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "exp") && strings.Contains(errStr, "not satisfied")
}

func (m *JWTManager) GetJWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(m.publicJWKS); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during NewJWTManager init
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

type RefreshTokenData struct {
	Token     string
	Hash      string
	ExpiresAt time.Time
	FamilyID  string
}

// CreateRefreshToken returns an opaque token and the SHA-256 hash that is
// persisted in its place. An empty familyID starts a new rotation chain.
func (m *JWTManager) CreateRefreshToken(familyID string) (*RefreshTokenData, error) {
	token, err := core.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if familyID == "" {
		familyID = uuid.New().String()
	}

	return &RefreshTokenData{
		Token:     token,
		Hash:      core.HashToken(token),
		ExpiresAt: m.now().Add(m.config.RefreshTokenExpire),
		FamilyID:  familyID,
	}, nil
}
