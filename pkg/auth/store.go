package auth

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
)

// ErrSessionNotFound is returned by a SessionBackend for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionBackend persists encoded session values by id.
type SessionBackend interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// PGStore is a gorilla sessions.Store that keeps values server side. The
// cookie only holds the signed session id.
type PGStore struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options
	backend SessionBackend
}

var _ sessions.Store = (*PGStore)(nil)

// NewPGStore creates a store signing cookies with a key derived from secret.
func NewPGStore(backend SessionBackend, secret string, ttl time.Duration, cookie CookieSettings) *PGStore {
	codecs := securecookie.CodecsFromPairs(deriveKey(secret))
	for _, c := range codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(int(ttl.Seconds()))
		}
	}

	return &PGStore{
		Codecs: codecs,
		Options: &sessions.Options{
			Path:     "/",
			Domain:   cookie.Domain,
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteLaxMode,
		},
		backend: backend,
	}
}

// Get returns the session cached for this request, loading it on first use.
func (s *PGStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, forged or
// expired cookie yields a fresh session and no error.
func (s *PGStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	data, err := s.backend.Load(r.Context(), session.ID)
	if errors.Is(err, ErrSessionNotFound) {
		session.ID = ""
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("load session: %w", err)
	}
	if err := securecookie.DecodeMulti(name, string(data), &session.Values, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the id cookie. A negative MaxAge
// deletes the session and expires the cookie.
func (s *PGStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(r.Context(), session.ID); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	expiresAt := time.Now().Add(time.Duration(session.Options.MaxAge) * time.Second)
	if err := s.backend.Save(r.Context(), session.ID, []byte(encoded), expiresAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	cookieValue, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session id: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), cookieValue, session.Options))
	return nil
}

// RunCleanup deletes expired sessions every interval until ctx is cancelled.
func (s *PGStore) RunCleanup(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.backend.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Failed to delete expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Deleted expired sessions", zap.Int64("count", n))
			}
		}
	}
}

type pgSessionBackend struct {
	q database.Querier
}

var _ SessionBackend = (*pgSessionBackend)(nil)

// NewPGSessionBackend stores sessions in the sessions table. q is normally
// the pool itself: sessions are read before a request scope exists.
func NewPGSessionBackend(q database.Querier) SessionBackend {
	return &pgSessionBackend{q: q}
}

func (b *pgSessionBackend) Load(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := b.q.QueryRow(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > now()`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *pgSessionBackend) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	_, err := b.q.Exec(ctx, `
		INSERT INTO sessions (id, data, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`,
		id, data, expiresAt)
	return err
}

func (b *pgSessionBackend) Delete(ctx context.Context, id string) error {
	_, err := b.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (b *pgSessionBackend) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := b.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
