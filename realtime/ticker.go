// Package realtime simulates the live event feed: a periodic tick that
// refreshes the anomaly scatter and prepends a line to a bounded log.
package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"coffeeintel/models"
)

const (
	DefaultInterval = 5 * time.Second
	LogWindow       = 8

	MsgAnomaly  = "New anomaly tile detected"
	MsgForecast = "Yield forecast recomputed"
)

// InitialLog is the feed shown before the first tick, newest first.
var InitialLog = []string{
	"Drone A streaming tiles…",
	"Weather: light showers expected in 2h",
	"CBD alert increased in Block B7",
}

// Source supplies the random parts of a tick. *mockdata.Generator satisfies it.
type Source interface {
	Scatter() []models.ScatterPoint
	Coin() bool
}

// Event is published to subscribers after every log change.
type Event struct {
	Entry   string                `json:"entry"`
	Log     []string              `json:"log"`
	Scatter []models.ScatterPoint `json:"scatter"`
	At      time.Time             `json:"at"`
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithClock replaces time.Now for log stamps.
func WithClock(now func() time.Time) Option { return func(t *Ticker) { t.now = now } }

// WithLogger sets the logger used for start/stop lines.
func WithLogger(l *zap.Logger) Option { return func(t *Ticker) { t.log = l } }

// WithOnTick registers a hook run after every periodic tick.
func WithOnTick(fn func()) Option { return func(t *Ticker) { t.onTick = fn } }

// Ticker owns the scatter snapshot and the visible log.
type Ticker struct {
	mu      sync.RWMutex
	src     Source
	now     func() time.Time
	log     *zap.Logger
	onTick  func()
	entries []string
	scatter []models.ScatterPoint
	ticks   uint64

	subMu sync.RWMutex
	subs  map[int]chan Event
	next  int
}

// New returns a ticker holding InitialLog and a fresh scatter snapshot.
func New(src Source, opts ...Option) *Ticker {
	t := &Ticker{
		src:     src,
		now:     time.Now,
		log:     zap.NewNop(),
		entries: append([]string(nil), InitialLog...),
		subs:    make(map[int]chan Event),
	}
	for _, o := range opts {
		o(t)
	}
	t.scatter = src.Scatter()
	return t
}

// Tick performs one step: new scatter, one synthetic log line.
func (t *Ticker) Tick() Event {
	msg := MsgForecast
	if t.src.Coin() {
		msg = MsgAnomaly
	}
	scatter := t.src.Scatter()
	now := t.now()
	entry := fmt.Sprintf("Realtime %s: %s", now.Format("15:04:05"), msg)

	t.mu.Lock()
	t.scatter = scatter
	t.ticks++
	evt := t.prependLocked(entry, now)
	t.mu.Unlock()

	t.publish(evt)
	return evt
}

// Push prepends an arbitrary line without touching the scatter.
func (t *Ticker) Push(entry string) Event {
	t.mu.Lock()
	evt := t.prependLocked(entry, t.now())
	t.mu.Unlock()

	t.publish(evt)
	return evt
}

func (t *Ticker) prependLocked(entry string, at time.Time) Event {
	n := len(t.entries)
	if n > LogWindow-1 {
		n = LogWindow - 1
	}
	next := make([]string, 0, LogWindow)
	next = append(next, entry)
	next = append(next, t.entries[:n]...)
	t.entries = next
	return Event{
		Entry:   entry,
		Log:     append([]string(nil), t.entries...),
		Scatter: append([]models.ScatterPoint(nil), t.scatter...),
		At:      at,
	}
}

// Log returns the visible entries, newest first.
func (t *Ticker) Log() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.entries...)
}

// Scatter returns the current anomaly snapshot.
func (t *Ticker) Scatter() []models.ScatterPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.ScatterPoint(nil), t.scatter...)
}

// Ticks returns how many ticks have run.
func (t *Ticker) Ticks() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ticks
}

// Handle controls one running tick loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start ticks every interval until ctx ends or the handle is stopped.
func (t *Ticker) Start(ctx context.Context, interval time.Duration) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(h.done)
		tk := time.NewTicker(interval)
		defer tk.Stop()
		t.log.Debug("ticker started", zap.Duration("interval", interval))
		for {
			select {
			case <-ctx.Done():
				t.log.Debug("ticker stopped", zap.Uint64("ticks", t.Ticks()))
				return
			case <-tk.C:
				// A stop racing with the tick must win.
				if ctx.Err() != nil {
					continue
				}
				t.Tick()
				if t.onTick != nil {
					t.onTick()
				}
			}
		}
	}()
	return h
}
