package chat

import (
	"sync"
	"time"

	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/index"
	"github.com/google/uuid"
)

// Session is one conversation: a mode, the turn log, and (in document
// mode) the knowledge index built from the last upload batch.
//
// mu serializes all turn-producing work on the session, so a slow
// answer in one session never blocks another session.
type Session struct {
	mu sync.Mutex

	ID        string
	Mode      entity.Mode
	Turns     []entity.ConversationTurn
	Index     *index.Index
	CreatedAt time.Time
}

// DTO returns a consistent snapshot of the session's public state.
func (s *Session) DTO() entity.SessionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	return entity.SessionDTO{
		ID:         s.ID,
		Mode:       s.Mode,
		TurnCount:  len(s.Turns),
		IndexReady: s.Index != nil,
		CreatedAt:  s.CreatedAt,
	}
}

// snapshotTurns copies the turn log so callers can read it after the
// session lock is released.
func (s *Session) snapshotTurns() []entity.ConversationTurn {
	turns := make([]entity.ConversationTurn, len(s.Turns))
	copy(turns, s.Turns)
	return turns
}

// reset discards all conversational state. Called with mu held.
func (s *Session) reset(mode entity.Mode) {
	s.Mode = mode
	s.Turns = nil
	s.Index = nil
}

// SessionStore is an in-memory session registry. Sessions live for the
// process lifetime; there is no persistence requirement for them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

func (st *SessionStore) Create(mode entity.Mode) *Session {
	session := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		CreatedAt: time.Now(),
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session, nil
}
