package runner

import (
	"sync"
	"time"

	"sniper_bot/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store хранит не более одной сессии на пользователя. Все операции
// атомарны по ключу и не блокируются на I/O.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*models.Session // owner -> сессия

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*models.Session),
		now:      time.Now,
	}
}

// Create заводит новую сессию в фазе Scanning.
func (s *Store) Create(owner, chatID int64) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[owner]; ok {
		return models.Session{}, errors.Wrapf(ErrAlreadyActive, "owner %d", owner)
	}

	sess := &models.Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		ChatID:    chatID,
		StartedAt: s.now(),
		Phase:     models.PhaseScanning,
	}
	s.sessions[owner] = sess
	return snapshot(sess), nil
}

func (s *Store) Get(owner int64) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[owner]
	if !ok {
		return models.Session{}, false
	}
	return snapshot(sess), true
}

// Remove удаляет и возвращает сессию. Единственная точка дедупликации
// между отменой и таймерами.
func (s *Store) Remove(owner int64) (models.Session, bool) {
	return s.RemoveIf(owner, func(models.Session) bool { return true })
}

// RemoveIf удаляет сессию, только если pred её принял.
func (s *Store) RemoveIf(owner int64, pred func(models.Session) bool) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[owner]
	if !ok || !pred(snapshot(sess)) {
		return models.Session{}, false
	}
	delete(s.sessions, owner)
	return snapshot(sess), true
}

// Mutate применяет fn к сессии на месте. Возвращает false, если сессии нет
// или fn отказалась от изменения. fn выполняется под локом, в ней нельзя
// делать I/O.
func (s *Store) Mutate(owner int64, fn func(*models.Session) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[owner]
	if !ok {
		return false
	}
	return fn(sess)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Active — сессии в Scanning или PositionOpen; Closed не считаются.
func (s *Store) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, sess := range s.sessions {
		if sess.Phase != models.PhaseClosed {
			n++
		}
	}
	return n
}

func snapshot(sess *models.Session) models.Session {
	out := *sess
	if sess.PendingToken != nil {
		tok := *sess.PendingToken
		out.PendingToken = &tok
	}
	return out
}
