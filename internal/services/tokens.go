package services

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harentsoaR/clinic-auth/internal/models"
)

// refreshTokenBytes is the entropy of an opaque refresh token: 32 bytes,
// 256 bits, before encoding.
const refreshTokenBytes = 32

// TokenConfig carries the signing material and claim policy of the access
// token issuer. It is supplied once at process start and never mutated.
type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	// VerifyIssuer turns on issuer/audience checks when reading claims
	// out of an expired token. Off by default: the refresh exchange only
	// needs the signature to hold.
	VerifyIssuer bool
}

// Principal is the authenticated identity carried by a validated access
// token. Handlers read typed fields instead of scanning a claim bag.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  models.UserType
}

type accessClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and validates access tokens and generates opaque
// refresh tokens. It holds no storage; it is a pure function of its
// configuration, the claims, and the clock.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

// IssueAccessToken mints an HS256-signed JWT for the principal, valid from
// now until now plus the configured TTL.
func (s *TokenService) IssueAccessToken(p Principal) (string, error) {
	now := s.now()
	claims := &accessClaims{
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.SigningKey)
}

// IssueRefreshToken returns an opaque random token: 32 bytes from the
// system CSPRNG, base64 URL-safe encoded. It carries no structure callers
// may parse and is never derived from user data.
func (s *TokenService) IssueRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ParseAccessToken fully validates a presented token, lifetime included,
// and returns its principal.
func (s *TokenService) ParseAccessToken(token string) (Principal, error) {
	return s.parse(token, false)
}

// ParseExpiredAccessToken verifies the signature and signing algorithm of
// a token but deliberately skips the lifetime check: it exists to extract
// the principal from an already-expired access token as the first step of
// a refresh exchange. Issuer/audience checks follow TokenConfig.
func (s *TokenService) ParseExpiredAccessToken(token string) (Principal, error) {
	return s.parse(token, true)
}

func (s *TokenService) parse(tokenStr string, allowExpired bool) (Principal, error) {
	// The algorithm is pinned both in the parser option and in the keyfunc:
	// a token whose header names anything but HS256 (including "none")
	// must fail regardless of its payload.
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	} else if s.cfg.VerifyIssuer {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer), jwt.WithAudience(s.cfg.Audience))
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.cfg.SigningKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	if allowExpired && s.cfg.VerifyIssuer {
		if claims.Issuer != s.cfg.Issuer || !slices.Contains(claims.Audience, s.cfg.Audience) {
			return Principal{}, ErrInvalidToken
		}
	}

	role, _ := models.UserTypeFromString(claims.Role)
	return Principal{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  role,
	}, nil
}
