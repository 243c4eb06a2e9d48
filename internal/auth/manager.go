package auth

import (
	"context"
	"log"
	"sync"
	"time"
)

// AuthClient es el contrato mínimo contra el backend de auth.
type AuthClient interface {
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type EventKind string

const (
	EventUpdated EventKind = "session-updated"
	EventRemoved EventKind = "session-removed"
	EventExpired EventKind = "session-expired"
)

type Event struct {
	Kind    EventKind
	Session *Session // solo para EventUpdated
}

// Listener se invoca de forma síncrona respecto del cambio de estado que
// disparó el evento. No hay orden garantizado entre listeners.
type Listener func(Event)

const (
	DefaultRefreshTimeout    = 12 * time.Second
	DefaultProactiveInterval = 45 * time.Minute
)

// Manager owns the one current session. Refresh is safe to call from any
// number of goroutines: concurrent callers share a single in-flight network
// refresh instead of issuing duplicates.
type Manager struct {
	client         AuthClient
	refreshTimeout time.Duration

	mu        sync.Mutex
	session   *Session
	inflight  *refreshCall
	listeners []Listener

	stopProactive chan struct{}
	stopOnce      sync.Once
}

// refreshCall es el handle compartido: quien llega primero hace el refresh,
// el resto espera en done y lee el mismo resultado.
type refreshCall struct {
	done    chan struct{}
	session *Session
	err     error
}

func NewManager(client AuthClient, refreshTimeout time.Duration) *Manager {
	if refreshTimeout <= 0 {
		refreshTimeout = DefaultRefreshTimeout
	}
	return &Manager{
		client:         client,
		refreshTimeout: refreshTimeout,
		stopProactive:  make(chan struct{}),
	}
}

// CurrentSession never touches the network.
func (m *Manager) CurrentSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// AddListener registers a listener for session lifecycle events.
func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// SetSession installs a session obtained elsewhere (app start with a
// persisted session) and broadcasts the update.
func (m *Manager) SetSession(s *Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	m.broadcast(Event{Kind: EventUpdated, Session: s})
}

// SignIn authenticates and installs the resulting session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	sess, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.SetSession(sess)
	return sess, nil
}

// SignOut revokes and clears the session. Los timers de quien nos observa
// se apagan vía el evento removed.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.mu.Unlock()

	if sess != nil {
		_ = m.client.SignOut(ctx, sess.AccessToken)
	}
	m.broadcast(Event{Kind: EventRemoved})
	return nil
}

// Refresh renews the current session. Guarantees:
//   - at most one network refresh in flight; concurrent callers await the
//     same outcome
//   - bounded by the configured timeout; a timeout counts as failure
//   - terminal failure (credential invalid) clears the session and
//     broadcasts expired; transient failure leaves it untouched
func (m *Manager) Refresh(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	if call := m.inflight; call != nil {
		m.mu.Unlock()
		select {
		case <-call.done:
			return call.session, call.err
		case <-ctx.Done():
			return nil, &Error{Kind: KindTransient, Message: "refresh wait aborted", Err: ctx.Err()}
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	m.inflight = call
	current := m.session
	m.mu.Unlock()

	call.session, call.err = m.doRefresh(current)

	m.mu.Lock()
	m.inflight = nil
	m.mu.Unlock()
	close(call.done)

	return call.session, call.err
}

func (m *Manager) doRefresh(current *Session) (*Session, error) {
	if current == nil {
		return nil, &Error{Kind: KindAuthExpired, Message: "no session to refresh"}
	}

	// El timeout corre contra background a propósito: si el primer caller
	// cancela, los que esperan el mismo resultado no deben sufrirlo.
	ctx, cancel := context.WithTimeout(context.Background(), m.refreshTimeout)
	defer cancel()

	fresh, err := m.client.RefreshSession(ctx, current.RefreshToken)
	if err != nil {
		if IsAuthExpired(err) {
			log.Printf("🔒 Refresh terminal: %v", err)
			m.mu.Lock()
			m.session = nil
			m.mu.Unlock()
			m.broadcast(Event{Kind: EventExpired})
			return nil, err
		}
		log.Printf("⚠️ Refresh transitorio, sesión intacta: %v", err)
		return nil, err
	}

	m.mu.Lock()
	m.session = fresh
	m.mu.Unlock()
	m.broadcast(Event{Kind: EventUpdated, Session: fresh})
	return fresh, nil
}

// StartAutoRefresh runs the proactive background refresh: every interval,
// while a session exists, renew it to stay ahead of token expiry.
func (m *Manager) StartAutoRefresh(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProactiveInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.stopProactive:
				return
			case <-ticker.C:
				if m.CurrentSession() == nil {
					continue
				}
				if _, err := m.Refresh(context.Background()); err != nil {
					log.Printf("⚠️ Refresh proactivo falló: %v", err)
				}
			}
		}
	}()
}

// Stop apaga el refresh proactivo. Idempotente.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopProactive) })
}

func (m *Manager) broadcast(e Event) {
	m.mu.Lock()
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}
