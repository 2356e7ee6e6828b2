package camera

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/gigevision/camnode/internal/events"
	"github.com/gigevision/camnode/pkg/svgige"
)

// Manager owns the open sessions, keyed by camera address. It is the entry
// point the API layer and CLI use to open, look up, and close cameras.
type Manager struct {
	driver svgige.Driver
	bus    *events.Bus
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given driver.
func NewManager(driver svgige.Driver, bus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		driver:   driver,
		bus:      bus,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open connects to the camera at device and registers the session. Opening
// a camera that is already open is an error; close it first.
func (m *Manager) Open(device, source string, opts *Options) (*Session, error) {
	m.mu.Lock()
	if _, exists := m.sessions[device]; exists {
		m.mu.Unlock()
		return nil, NewError(ErrCodeAlreadyOpen, "camera session already open: "+device, nil)
	}
	m.mu.Unlock()

	sess, err := Open(m.driver, device, source, opts, m.bus)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A racing Open for the same device may have won; the later session
	// must not leak.
	if _, exists := m.sessions[device]; exists {
		m.mu.Unlock()
		_ = sess.Close()
		return nil, NewError(ErrCodeAlreadyOpen, "camera session already open: "+device, nil)
	}
	m.sessions[device] = sess
	m.mu.Unlock()

	m.logger.Info("Camera registered", "camera", device, "identity", sess.Identity())
	return sess, nil
}

// Get returns the session for a camera address.
func (m *Manager) Get(device string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[device]
	if !ok {
		return nil, NewError(ErrCodeNotFound, "no open session for camera "+device, nil)
	}
	return sess, nil
}

// Close tears down and removes the session for a camera address. Closing an
// unknown camera is a no-op.
func (m *Manager) Close(device string) error {
	m.mu.Lock()
	sess, ok := m.sessions[device]
	if ok {
		delete(m.sessions, device)
	}
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.Close()
}

// List returns the open camera addresses, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]string, 0, len(m.sessions))
	for device := range m.sessions {
		devices = append(devices, device)
	}
	sort.Strings(devices)
	return devices
}

// CloseAll tears down every open session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for device, sess := range m.sessions {
		sessions = append(sessions, sess)
		delete(m.sessions, device)
	}
	m.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}
	m.logger.Info("All camera sessions closed")
}
