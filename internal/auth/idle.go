package auth

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	DefaultInactivityAfter  = 15 * time.Minute
	DefaultResumeGap        = 5 * time.Minute
	DefaultIdleRefreshLimit = 10 * time.Second
)

// Refresher is the slice of Manager the detector needs.
type Refresher interface {
	Refresh(ctx context.Context) (*Session, error)
	CurrentSession() *Session
}

// IdleDetector vigila la inactividad del usuario, independiente de cualquier
// request en vuelo. Touch() llega desde los eventos de actividad del front;
// Resume() cuando la pestaña recupera foco. Pasado el umbral de quietud se
// señala IdleTimeout para que el caller muestre el modal de continuar o salir.
type IdleDetector struct {
	sessions        Refresher
	inactivityAfter time.Duration
	proactiveEvery  time.Duration
	resumeGap       time.Duration
	refreshTimeout  time.Duration

	mu           sync.Mutex
	lastActivity time.Time
	idleTimer    *time.Timer
	stop         chan struct{}
	running      bool

	idleC chan struct{}
}

type IdleConfig struct {
	InactivityAfter time.Duration
	ProactiveEvery  time.Duration
	ResumeGap       time.Duration
	RefreshTimeout  time.Duration
}

func NewIdleDetector(sessions Refresher, cfg IdleConfig) *IdleDetector {
	if cfg.InactivityAfter <= 0 {
		cfg.InactivityAfter = DefaultInactivityAfter
	}
	if cfg.ProactiveEvery <= 0 {
		cfg.ProactiveEvery = DefaultProactiveInterval
	}
	if cfg.ResumeGap <= 0 {
		cfg.ResumeGap = DefaultResumeGap
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = DefaultIdleRefreshLimit
	}

	return &IdleDetector{
		sessions:        sessions,
		inactivityAfter: cfg.InactivityAfter,
		proactiveEvery:  cfg.ProactiveEvery,
		resumeGap:       cfg.ResumeGap,
		refreshTimeout:  cfg.RefreshTimeout,
		idleC:           make(chan struct{}, 1),
	}
}

// IdleTimeout fires once per quiet period. Buffered so the detector never
// blocks waiting for a consumer.
func (d *IdleDetector) IdleTimeout() <-chan struct{} {
	return d.idleC
}

// Start arma el timer de inactividad y el ticker proactivo. Reutilizable
// entre ciclos de login: Start tras Stop crea todo de nuevo.
func (d *IdleDetector) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.stop = make(chan struct{})
	d.lastActivity = time.Now()
	d.idleTimer = time.AfterFunc(d.inactivityAfter, d.onIdle)

	go d.proactiveLoop(d.stop)
}

// Stop tears down timers and the proactive goroutine. No leaks across
// sign-in/sign-out cycles.
func (d *IdleDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.running = false
	d.idleTimer.Stop()
	close(d.stop)
}

// Touch registra actividad del usuario y corre el timer de inactividad.
func (d *IdleDetector) Touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.lastActivity = time.Now()
	d.idleTimer.Reset(d.inactivityAfter)
}

// Resume se llama cuando la ventana recupera foco. Si el usuario estuvo
// ausente más que el gap tolerado, refresca ya mismo en vez de esperar el
// próximo tick.
func (d *IdleDetector) Resume() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	gap := time.Since(d.lastActivity)
	d.lastActivity = time.Now()
	d.idleTimer.Reset(d.inactivityAfter)
	d.mu.Unlock()

	if gap >= d.resumeGap {
		d.refreshNow("resume")
	}
}

func (d *IdleDetector) onIdle() {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()
	if !running {
		return
	}

	select {
	case d.idleC <- struct{}{}:
	default: // señal anterior sin consumir, no acumulamos
	}
}

func (d *IdleDetector) proactiveLoop(stop chan struct{}) {
	ticker := time.NewTicker(d.proactiveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if d.sessions.CurrentSession() == nil {
				continue
			}
			d.refreshNow("proactive")
		}
	}
}

// refreshNow corre un refresh acotado por timeout: si se cuelga, cuenta
// como falla, nunca como espera infinita.
func (d *IdleDetector) refreshNow(reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.refreshTimeout)
	defer cancel()

	if _, err := d.sessions.Refresh(ctx); err != nil {
		log.Printf("⚠️ Refresh (%s) falló: %v", reason, err)
	}
}
