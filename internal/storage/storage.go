package storage

import (
	"sync"

	"github.com/lehigh-university-libraries/brochurer/internal/models"
)

// BrochureStore holds the single live brochure of an editing session.
// Publish replaces it wholesale; readers get a snapshot pointer.
type BrochureStore struct {
	current *models.Brochure
	mu      sync.RWMutex
}

func NewBrochureStore() *BrochureStore {
	return &BrochureStore{}
}

// Publish replaces the current brochure.
func (s *BrochureStore) Publish(b *models.Brochure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = b
}

// Current returns the live brochure, or false before the first Publish.
func (s *BrochureStore) Current() (*models.Brochure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

type entry struct {
	session   *models.Session
	brochures *BrochureStore
}

type SessionStore struct {
	sessions map[string]*entry
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
	}
}

// Get returns a copy of the session taken under the read lock. Changes go
// through Update.
func (s *SessionStore) Get(sessionID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return copySession(e.session), true
}

func copySession(session *models.Session) *models.Session {
	c := *session
	c.Photos = append([]*models.Photo{}, session.Photos...)
	return &c
}

// Set stores session, keeping any brochure already published for it.
func (s *SessionStore) Set(sessionID string, session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, exists := s.sessions[sessionID]; exists {
		e.session = session
		return
	}
	s.sessions[sessionID] = &entry{session: session, brochures: NewBrochureStore()}
}

// Update applies fn to the stored session under the write lock.
func (s *SessionStore) Update(sessionID string, fn func(*models.Session)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.sessions[sessionID]
	if !exists {
		return false
	}
	fn(e.session)
	return true
}

// Brochures returns the brochure store of a session.
func (s *SessionStore) Brochures(sessionID string) (*BrochureStore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return e.brochures, true
}

func (s *SessionStore) GetAll() map[string]*models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = copySession(v.session)
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
