package auth

import (
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Session is an authenticated identity, alive from Login until logout.
type Session struct {
	ID        uuid.UUID
	User      core.User
	StartedAt time.Time
}

func newSession(user core.User) *Session {
	return &Session{
		ID:        uuid.New(),
		User:      user,
		StartedAt: time.Now(),
	}
}

// Logger returns base tagged with the session and user ids.
func (s *Session) Logger(base *log.Logger) *log.Logger {
	return base.With(log.FieldSessionID, s.ID.String(), log.FieldUserID, s.User.ID)
}
