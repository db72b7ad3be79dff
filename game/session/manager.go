package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
	"github.com/wricardo/mcp-training/t1000mission/game/mission"
	"github.com/wricardo/mcp-training/t1000mission/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// saveTimeout bounds how long a save waits for the controller loop
const saveTimeout = 5 * time.Second

// ConfigLoader resolves the preset a persisted session was created with
type ConfigLoader interface {
	LoadConfig(name string) (*engine.MissionConfig, error)
}

// Manager handles mission session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	configs     ConfigLoader
	publisher   mission.Publisher
	engineOpts  []engine.Option
	mu          sync.RWMutex
}

// Option customizes a Manager
type Option func(*Manager)

// WithPublisher sets where the render events of every session go
func WithPublisher(p mission.Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// WithEngineOptions passes options to every engine the manager creates
func WithEngineOptions(opts ...engine.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// NewManager creates a new in-memory session manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewManagerWithPersistence creates a session manager that stores every
// session's mission history. configs resolves the preset of restored sessions.
func NewManagerWithPersistence(persistence SessionPersistence, configs ConfigLoader, opts ...Option) *Manager {
	m := NewManager(opts...)
	m.persistence = persistence
	m.configs = configs
	return m
}

// Create creates a new session with the given ID and configuration
func (m *Manager) Create(id, configID string, config *engine.MissionConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}
	if m.persistence != nil && m.persistence.Exists(id) {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session, err := m.newSession(id, configID, config, nil)
	if err != nil {
		return nil, err
	}
	session.CreatedAt = now
	session.LastAccessedAt = now

	m.sessions[strings.ToLower(id)] = session

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(persistedData(session, nil)); err != nil {
			// Log error but don't fail the creation
			log.Printf("[SESSION] failed to persist session %s: %v", id, err)
		}
	}

	return session, nil
}

// newSession builds the engine and the controller that owns it
func (m *Manager) newSession(id, configID string, config *engine.MissionConfig, history []engine.MissionRecord) (*service.Session, error) {
	eng, err := engine.NewEngine(config, m.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if len(history) > 0 {
		eng.RestoreHistory(history)
	}

	opts := []mission.Option{
		mission.WithResolvedHook(func(rec engine.MissionRecord) {
			// The hook runs on the controller loop, which Save needs free
			go func() {
				if err := m.Save(id); err != nil && !errors.Is(err, ErrSessionNotFound) {
					log.Printf("[SESSION] failed to persist session %s after mission %d: %v", id, rec.Number, err)
				}
			}()
		}),
	}
	if m.publisher != nil {
		opts = append(opts, mission.WithPublisher(m.publisher))
	}

	return &service.Session{
		ID:         id,
		ConfigID:   configID,
		Controller: mission.NewController(id, eng, opts...),
		Config:     config,
	}, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.lookup(id)
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && m.persistence.Exists(id) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if session, exists := m.lookup(id); exists {
			return session, nil
		}

		session, err := m.restore(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}
		m.sessions[strings.ToLower(id)] = session
		return session, nil
	}

	return nil, ErrSessionNotFound
}

// restore rebuilds a persisted session. The mission in flight is not
// stored, so a restored session starts idle with its history intact.
func (m *Manager) restore(id string) (*service.Session, error) {
	data, err := m.persistence.Load(id)
	if err != nil {
		return nil, err
	}
	if m.configs == nil {
		return nil, fmt.Errorf("no config loader to restore session %s", id)
	}

	config, err := m.configs.LoadConfig(data.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigID, err)
	}

	session, err := m.newSession(data.ID, data.ConfigID, config, data.History)
	if err != nil {
		return nil, err
	}
	session.CreatedAt = data.CreatedAt
	session.LastAccessedAt = data.LastAccessedAt
	return session, nil
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete stops the session's controller and removes it from memory and storage
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, inMemory := m.lookup(id)
	if inMemory {
		delete(m.sessions, strings.ToLower(session.ID))
		session.Controller.Close()
	}

	// Delete from persistence if it exists
	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	// If not in persistence and not in memory, it doesn't exist
	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// DeleteFromMemory stops a session and drops it from memory only
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.lookup(id)
	if !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, strings.ToLower(session.ID))
	session.Controller.Close()
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.lookup(id)
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return nil
}

// Save writes a session and its mission history to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	session, exists := m.lookup(id)
	var snapshot service.Session
	if exists {
		snapshot = *session
	}
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	history, err := snapshot.Controller.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to read mission history: %w", err)
	}

	return m.persistence.Save(persistedData(&snapshot, history))
}

// CleanupExpiredSessions stops and removes sessions that haven't been
// accessed in the given duration. Persisted copies are kept.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			session.Controller.Close()
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops every controller without touching persistence
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, session := range m.sessions {
		session.Controller.Close()
		delete(m.sessions, key)
	}
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// lookup finds a session case-insensitively. Callers hold m.mu.
func (m *Manager) lookup(id string) (*service.Session, bool) {
	session, exists := m.sessions[strings.ToLower(id)]
	return session, exists
}

// sessionExists checks if a session exists (case-insensitive)
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.lookup(id)
	return exists
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		// Skip if already loaded in memory
		if m.sessionExists(id) {
			continue
		}

		session, err := m.restore(id)
		if err != nil {
			log.Printf("[SESSION] failed to load persisted session %s: %v", id, err)
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		log.Printf("[SESSION] loaded %d persisted sessions from storage", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for _, session := range m.sessions {
		ids = append(ids, session.ID)
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, id := range ids {
		if err := m.Save(id); err != nil {
			log.Printf("[SESSION] failed to save session %s: %v", id, err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}

func persistedData(s *service.Session, history []engine.MissionRecord) *PersistedSessionData {
	return &PersistedSessionData{
		ID:             s.ID,
		ConfigID:       s.ConfigID,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		History:        history,
	}
}
