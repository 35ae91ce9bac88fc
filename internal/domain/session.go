package domain

import "context"

// Session is the caller identity handed over by the auth collaborator.
// The simulation layer never sees credentials, only this capability.
type Session struct {
	UserID   string
	LoggedIn bool
}

// MayPersist reports whether results may be saved for this session
func (s Session) MayPersist() bool {
	return s.LoggedIn && s.UserID != ""
}

type sessionKey struct{}

// WithSession stores the session in ctx for transport handlers
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession.
// An anonymous session is returned when none is present.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
