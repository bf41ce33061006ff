// Package state provides the central view-state store shared by the
// controllers and panels.
package state

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/logging"
)

// Listener is notified with a copy of the state after every mutation.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store holds the view state with thread-safe access. Mutations go through
// the setters, UpdateConfig and ResetConfig; subscribers are notified
// synchronously after each one, outside the lock.
type Store struct {
	mu       sync.RWMutex
	state    State
	defaults State

	subMu  sync.Mutex
	subs   []subscription
	nextID int

	logger *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDefaults replaces the build-time defaults used by NewStore and ResetConfig.
func WithDefaults(s State) Option {
	return func(st *Store) {
		st.defaults = s
	}
}

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l *logging.Logger) Option {
	return func(st *Store) {
		st.logger = l
	}
}

// NewStore creates a store initialised to its defaults.
func NewStore(opts ...Option) *Store {
	s := &Store{
		defaults: Defaults(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.defaults
	return s
}

// State returns a consistent copy of the whole state tree.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SelectedBody returns the currently selected body.
func (s *Store) SelectedBody() body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Selected
}

// ViewPerspective returns the current camera perspective.
func (s *Store) ViewPerspective() body.Perspective {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ViewPerspective
}

// SpeedMultiplier returns the global animation speed multiplier.
func (s *Store) SpeedMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SpeedMultiplier
}

// RadiusMultiplier returns the global radius multiplier.
func (s *Store) RadiusMultiplier() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RadiusMultiplier
}

// Physical returns the constants for b.
func (s *Store) Physical(b body.Body) BodyConstants {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Physical(b)
}

// SetSelectedBody selects b. Passing a value outside the enumeration is a
// programming error and panics.
func (s *Store) SetSelectedBody(b body.Body) {
	if !b.Valid() {
		panic(fmt.Sprintf("state: invalid body %q", string(b)))
	}
	s.mu.Lock()
	s.state.Selected = b
	s.mu.Unlock()

	s.logger.Debug("selected body -> %s", b)
	s.notify()
}

// SetViewPerspective sets the camera perspective. Passing a value outside
// the enumeration is a programming error and panics.
func (s *Store) SetViewPerspective(p body.Perspective) {
	if !p.Valid() {
		panic(fmt.Sprintf("state: invalid perspective %q", string(p)))
	}
	s.mu.Lock()
	s.state.ViewPerspective = p
	s.mu.Unlock()

	s.logger.Debug("view perspective -> %s", p)
	s.notify()
}

// UpdateConfig deep-merges partial into the current state. Only the leaf
// keys present in partial change. The update is all-or-nothing: on error
// the state is left untouched and subscribers are not notified.
func (s *Store) UpdateConfig(partial Partial) error {
	if len(partial) == 0 {
		return nil
	}

	s.mu.Lock()
	next, err := mergeState(s.state, partial)
	if err == nil {
		err = next.Validate()
	}
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("update config: %w", err)
	}
	s.state = next
	s.mu.Unlock()

	s.logger.Debug("config updated (%d top-level keys)", len(partial))
	s.notify()
	return nil
}

// UpdateConfigYAML parses data as a partial state tree and applies it with
// UpdateConfig.
func (s *Store) UpdateConfigYAML(data []byte) error {
	partial, err := ParsePartial(data)
	if err != nil {
		return err
	}
	return s.UpdateConfig(partial)
}

// LoadFile applies the YAML overrides in path.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := s.UpdateConfigYAML(data); err != nil {
		return fmt.Errorf("apply config %s: %w", path, err)
	}
	s.logger.Info("loaded config overrides from %s", path)
	return nil
}

// ResetConfig restores every field to its default except the selected
// body, which is carried over from the state at call time.
func (s *Store) ResetConfig() {
	s.mu.Lock()
	selected := s.state.Selected
	s.state = s.defaults
	s.state.Selected = selected
	s.mu.Unlock()

	s.logger.Debug("config reset (kept selected=%s)", selected)
	s.notify()
}

// Dump returns the current state as YAML.
func (s *Store) Dump() ([]byte, error) {
	st := s.State()
	out, err := yaml.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return out, nil
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription and is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// notify delivers the current state to every subscriber in subscription order.
func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	if len(subs) == 0 {
		return
	}
	snapshot := s.State()
	for _, sub := range subs {
		sub.fn(snapshot)
	}
}
