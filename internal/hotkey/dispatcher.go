package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrUnknownCombo = errors.New("hotkey: no handler for combo")
	ErrQueueFull    = errors.New("hotkey: queue full")
	ErrRegistration = errors.New("hotkey: registration failed")
)

// Event is one hotkey press.
type Event struct {
	Combo     Combo
	Timestamp time.Time
}

// HandlerFunc handles a fired combo.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*handlerConfig)

type handlerConfig struct {
	bufferSize int
	logged     bool
}

// Buffered runs the handler on its own goroutine behind a queue of the
// given size. Presses arriving while the queue is full are dropped.
func Buffered(size int) Option {
	return func(c *handlerConfig) {
		c.bufferSize = size
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *handlerConfig) {
		c.logged = true
	}
}

type route struct {
	combo   Combo
	handler HandlerFunc
}

// Dispatcher routes fired combos to registered handlers.
type Dispatcher struct {
	logger Logger

	mu      sync.RWMutex
	routes  map[string]route
	order   []string
	buffers []chan Event

	processed metric.Int64Counter
	dropped   metric.Int64Counter
}

// New creates a Dispatcher. It uses the global OTel meter for metrics
// (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		logger: logger,
		routes: make(map[string]route),
	}

	m := meter()
	var err error

	d.processed, err = m.Int64Counter(
		"hotkey.events.processed",
		metric.WithDescription("Hotkey presses handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"hotkey.events.dropped",
		metric.WithDescription("Hotkey presses dropped due to a full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for combo. Registering the same combo again
// replaces its handler.
func (d *Dispatcher) Register(combo Combo, h HandlerFunc, opts ...Option) {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	key := combo.String()
	handler := d.withMetrics(key, h)

	if cfg.logged {
		handler = d.withLogging(key, handler)
	}
	if cfg.bufferSize > 0 {
		handler = d.withBuffer(key, cfg.bufferSize, handler)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.routes[key]; !exists {
		d.order = append(d.order, key)
	}
	d.routes[key] = route{combo: combo, handler: handler}
}

// Dispatch routes e to the handler registered for its combo.
func (d *Dispatcher) Dispatch(e Event) error {
	d.mu.RLock()
	r, ok := d.routes[e.Combo.String()]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCombo, e.Combo)
	}
	return r.handler(e)
}

// HasHandler reports whether a handler is registered for combo.
func (d *Dispatcher) HasHandler(combo Combo) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.routes[combo.String()]
	return ok
}

// Bind registers every combo with r in registration order. Each OS press
// is turned into an Event and dispatched. On failure the combos bound so
// far are released.
func (d *Dispatcher) Bind(r Registrar) error {
	d.mu.RLock()
	routes := make([]route, 0, len(d.order))
	for _, key := range d.order {
		routes = append(routes, d.routes[key])
	}
	d.mu.RUnlock()

	for _, rt := range routes {
		combo := rt.combo
		err := r.Register(combo, func() {
			if err := d.Dispatch(Event{Combo: combo, Timestamp: time.Now()}); err != nil {
				d.logger.Error("hotkey dispatch failed", "combo", combo.String(), "error", err)
			}
		})
		if err != nil {
			if uerr := r.UnregisterAll(); uerr != nil {
				d.logger.Error("failed to release hotkeys", "error", uerr)
			}
			return fmt.Errorf("%w: %s: %w", ErrRegistration, combo, err)
		}
		d.logger.Debug("hotkey bound", "combo", combo.String())
	}
	return nil
}

// Close stops the goroutines behind buffered handlers. Queued events are
// still handled before they exit. Release the Registrar first so no press
// is dispatched while closing.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, b := range d.buffers {
		close(b)
	}
	d.buffers = nil
	d.routes = make(map[string]route)
	d.order = nil
}

func (d *Dispatcher) withMetrics(combo string, h HandlerFunc) HandlerFunc {
	attr := metric.WithAttributes(attribute.String("combo", combo))
	return func(e Event) error {
		err := h(e)
		d.processed.Add(context.Background(), 1, attr)
		return err
	}
}

func (d *Dispatcher) withBuffer(combo string, size int, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	d.mu.Lock()
	d.buffers = append(d.buffers, buffer)
	d.mu.Unlock()

	go func() {
		for e := range buffer {
			if err := h(e); err != nil {
				d.logger.Error("buffered hotkey handler failed", "combo", combo, "error", err)
			}
		}
	}()

	attr := metric.WithAttributes(attribute.String("combo", combo))
	return func(e Event) error {
		select {
		case buffer <- e:
			return nil
		default:
			d.dropped.Add(context.Background(), 1, attr)
			return fmt.Errorf("%w: %s", ErrQueueFull, combo)
		}
	}
}

func (d *Dispatcher) withLogging(combo string, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		d.logger.Debug("handling hotkey", "combo", combo)

		err := h(e)

		if err != nil {
			d.logger.Error("hotkey handler failed", "combo", combo, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("hotkey handled", "combo", combo, "duration", time.Since(start))
		}
		return err
	}
}
