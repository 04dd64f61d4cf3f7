package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

// SessionName is the name of the session cookie.
const SessionName = "lacrosselens_session"

// Session value keys.
const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "email"
	sessionKeyName   = "name"
)

// AuthService resolves the caller of a request.
type AuthService interface {
	// ValidateRequest authenticates the request. It checks, in order:
	//   1. the session cookie (browser clients)
	//   2. an Authorization header with the Bearer scheme (API clients)
	// Returns the claims and the raw token ("" for session callers).
	ValidateRequest(r *http.Request) (*Claims, string, error)

	// ValidateBearer authenticates only the Authorization header.
	ValidateBearer(r *http.Request) (*Claims, string, error)

	// StartSession stores claims in a new server-side session and sets the cookie.
	StartSession(w http.ResponseWriter, r *http.Request, claims *Claims) error

	// EndSession deletes the caller's session and expires the cookie.
	EndSession(w http.ResponseWriter, r *http.Request) error
}

type authService struct {
	jwksClient JWKSClientInterface
	store      sessions.Store
	logger     *zap.Logger
}

// NewAuthService creates an AuthService. store may be nil, in which case
// only bearer tokens are accepted.
func NewAuthService(jwksClient JWKSClientInterface, store sessions.Store, logger *zap.Logger) AuthService {
	return &authService{
		jwksClient: jwksClient,
		store:      store,
		logger:     logger,
	}
}

func (s *authService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	if claims := s.sessionClaims(r); claims != nil {
		return claims, "", nil
	}
	return s.ValidateBearer(r)
}

func (s *authService) ValidateBearer(r *http.Request) (*Claims, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No credentials found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, "", ErrMissingAuthorization
	}

	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" || tokenString == "" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, "", ErrInvalidAuthFormat
	}

	claims, err := s.jwksClient.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("JWT validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, "", err
	}

	return claims, tokenString, nil
}

func (s *authService) sessionClaims(r *http.Request) *Claims {
	if s.store == nil {
		return nil
	}
	if _, err := r.Cookie(SessionName); err != nil {
		return nil
	}

	session, err := s.store.Get(r, SessionName)
	if err != nil {
		s.logger.Warn("Failed to load session", zap.Error(err))
		return nil
	}
	if session.IsNew {
		return nil
	}

	userID, _ := session.Values[sessionKeyUserID].(string)
	if userID == "" {
		return nil
	}
	email, _ := session.Values[sessionKeyEmail].(string)
	name, _ := session.Values[sessionKeyName].(string)

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            email,
		Name:             name,
	}
}

func (s *authService) StartSession(w http.ResponseWriter, r *http.Request, claims *Claims) error {
	if s.store == nil {
		return errors.New("sessions are not configured")
	}

	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Values[sessionKeyUserID] = claims.Subject
	session.Values[sessionKeyEmail] = claims.Email
	session.Values[sessionKeyName] = claims.Name
	return session.Save(r, w)
}

func (s *authService) EndSession(w http.ResponseWriter, r *http.Request) error {
	if s.store == nil {
		return nil
	}

	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

var _ AuthService = (*authService)(nil)

// deriveKey hashes any passphrase into a 32-byte signing key.
func deriveKey(secret string) []byte {
	key := sha256.Sum256([]byte(secret))
	return key[:]
}
