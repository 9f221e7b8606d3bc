package service

import (
	"crypto/subtle"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"perfectapi/internal/domain"
)

// Scopes understood by the API. Principals authenticated via the static
// write token or API key hold all of them.
const (
	ScopeUsersWrite    = "users:write"
	ScopeProductsWrite = "products:write"
	ScopeOrdersWrite   = "orders:write"
	ScopeRead          = "read"
)

var allScopes = []string{ScopeUsersWrite, ScopeProductsWrite, ScopeOrdersWrite, ScopeRead}

// ErrMissingCredentials is returned when a request carries no recognizable
// credential at all.
var ErrMissingCredentials = fmt.Errorf("%w: missing credentials", domain.ErrUnauthorized)

const tokenTTL = time.Hour

// Principal is an authenticated caller.
type Principal struct {
	Subject string
	Scopes  []string
	Via     string // "bearer", "token", or "api_key"
}

// HasScope reports whether the principal holds the given scope.
func (p Principal) HasScope(scope string) bool {
	return slices.Contains(p.Scopes, scope)
}

// TokenResponse is the payload returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type storedCredential struct {
	passwordHash []byte
	scopes       []string
}

// AuthService authenticates against a fixed credential table and issues
// HS256 access tokens. There is no user database; credentials are static
// fixture data, hashed at construction so verification still goes through
// bcrypt.
type AuthService struct {
	credentials map[string]storedCredential
	jwtSecret   []byte
	writeToken  []byte
	apiKey      []byte
}

// NewAuthService builds the static credential table. writeToken and apiKey
// are the two non-interactive credentials accepted on write endpoints; either
// may be empty to disable it.
func NewAuthService(jwtSecret, writeToken, apiKey string, bcryptCost int) (*AuthService, error) {
	static := []struct {
		username string
		password string
		scopes   []string
	}{
		{"admin", "adminpass", allScopes},
		{"reader", "readerpass", []string{ScopeRead}},
	}

	credentials := make(map[string]storedCredential, len(static))
	for _, c := range static {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash credential for %s: %w", c.username, err)
		}
		credentials[c.username] = storedCredential{passwordHash: hash, scopes: c.scopes}
	}

	return &AuthService{
		credentials: credentials,
		jwtSecret:   []byte(jwtSecret),
		writeToken:  []byte(writeToken),
		apiKey:      []byte(apiKey),
	}, nil
}

// IssueToken validates the credentials and returns a signed access token.
// Requested scopes must be a subset of the ones granted to the credential;
// an empty request grants all of them.
func (s *AuthService) IssueToken(username, password string, requested []string) (TokenResponse, error) {
	cred, ok := s.credentials[username]
	if !ok {
		// Burn a comparison anyway so unknown and known usernames take
		// comparable time.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return TokenResponse{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	scopes := cred.scopes
	if len(requested) > 0 {
		for _, scope := range requested {
			if !slices.Contains(cred.scopes, scope) {
				return TokenResponse{}, fmt.Errorf("%w: insufficient scope", domain.ErrForbidden)
			}
		}
		scopes = requested
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    username,
		"scopes": scopes,
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}

	return TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(tokenTTL.Seconds()),
		Scope:       strings.Join(scopes, " "),
	}, nil
}

// VerifyBearer resolves a bearer credential into a principal. The static
// write token is accepted as a full-privilege principal; anything else must
// be a valid HS256 token issued by IssueToken.
func (s *AuthService) VerifyBearer(token string) (Principal, error) {
	if len(s.writeToken) > 0 && subtle.ConstantTimeCompare([]byte(token), s.writeToken) == 1 {
		return Principal{Subject: "write-token", Scopes: allScopes, Via: "token"}, nil
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: invalid authentication token", domain.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, fmt.Errorf("%w: invalid authentication token", domain.ErrUnauthorized)
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, fmt.Errorf("%w: missing subject", domain.ErrUnauthorized)
	}

	var scopes []string
	if raw, ok := claims["scopes"].([]any); ok {
		for _, entry := range raw {
			if scope, ok := entry.(string); ok {
				scopes = append(scopes, scope)
			}
		}
	}
	return Principal{Subject: subject, Scopes: scopes, Via: "bearer"}, nil
}

// VerifyAPIKey resolves an X-API-Key credential into a principal.
func (s *AuthService) VerifyAPIKey(key string) (Principal, error) {
	if len(s.apiKey) > 0 && subtle.ConstantTimeCompare([]byte(key), s.apiKey) == 1 {
		return Principal{Subject: "api-key", Scopes: allScopes, Via: "api_key"}, nil
	}
	return Principal{}, fmt.Errorf("%w: invalid API key", domain.ErrUnauthorized)
}

// dummyHash is a bcrypt hash compared against when the username is unknown.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}()
