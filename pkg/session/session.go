package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/schema"
	"github.com/luthfidi/formflow/pkg/validate"
)

// DefaultDebounce is the pause after the last edit before a field's
// validators run.
const DefaultDebounce = 300 * time.Millisecond

// Option configures a Session at construction time.
type Option func(*Session)

// WithDebounce overrides the edit-settle delay. Zero disables debouncing and
// runs validation inline on every SetValue.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithValidation attaches a pre-built validation context, typically one that
// already carries registered validators.
func WithValidation(vc *validate.Context) Option {
	return func(s *Session) {
		if vc != nil {
			s.vctx = vc
		}
	}
}

// Snapshot is a point-in-time copy of the session state, safe to hand to a
// renderer while the session keeps mutating.
type Snapshot struct {
	Visible  []string
	Values   map[string]any
	Results  map[string]validate.Result
	Pending  []string
	Defaults map[string]any
}

// Session holds the live state of one form instance: the value bag, the
// visible field set, and the per-field validation results. Every SetValue
// recomputes visibility wholesale and schedules a debounced validation pass
// for the edited field; results arriving for a superseded edit are discarded.
type Session struct {
	form     model.FormConfig
	schema   schema.Schema
	vctx     *validate.Context
	debounce time.Duration

	mu      sync.Mutex
	values  map[string]any
	visible []string
	results map[string]validate.Result
	timers  map[string]*time.Timer
	seq     map[string]uint64
	pending map[string]bool
	closed  bool
}

// New compiles the configuration and opens a session seeded with the schema
// defaults. Generation failures surface here, before any state exists.
func New(form model.FormConfig, opts ...Option) (*Session, error) {
	compiled, err := schema.Generate(form)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		form:     form,
		schema:   compiled,
		debounce: DefaultDebounce,
		values:   compiled.Defaults(),
		results:  make(map[string]validate.Result),
		timers:   make(map[string]*time.Timer),
		seq:      make(map[string]uint64),
		pending:  make(map[string]bool),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.vctx == nil {
		s.vctx = validate.NewContext()
	}

	if err := s.recomputeVisible(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// Schema exposes the compiled schema backing this session.
func (s *Session) Schema() schema.Schema { return s.schema }

// Form exposes the configuration this session was opened with.
func (s *Session) Form() model.FormConfig { return s.form }

// Validation exposes the session's validation context, for registering
// validators after construction.
func (s *Session) Validation() *validate.Context { return s.vctx }

// SetValue records an edit, recomputes the visible field set, and schedules
// validation for the edited field. Edits to unknown fields are ignored.
func (s *Session) SetValue(name string, value any) error {
	field, ok := s.form.Field(name)
	if !ok {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.values[name] = value
	s.seq[name]++
	seq := s.seq[name]
	if err := s.recomputeVisibleLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.isVisibleLocked(name) {
		s.mu.Unlock()
		return nil
	}
	s.pending[name] = true

	if s.debounce == 0 {
		s.mu.Unlock()
		s.runFieldValidation(field, value, seq)
		return nil
	}

	if timer, ok := s.timers[name]; ok {
		timer.Stop()
	}
	s.timers[name] = time.AfterFunc(s.debounce, func() {
		s.runFieldValidation(field, value, seq)
	})
	s.mu.Unlock()
	return nil
}

// runFieldValidation performs the schema check and, when configured, the
// named validator for one edit. The captured sequence number decides whether
// the outcome still describes the field's current value.
func (s *Session) runFieldValidation(field model.FieldConfig, value any, seq uint64) {
	result := s.checkField(context.Background(), field, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq[field.Name] {
		// A newer edit superseded this run; its own pass owns the result.
		return
	}
	delete(s.pending, field.Name)
	delete(s.timers, field.Name)
	if s.isVisibleLocked(field.Name) {
		s.results[field.Name] = result
	}
}

// checkField runs the compiled schema node first and the field's named
// validator second. Schema failures short-circuit; the named validator only
// sees values that already satisfy the declarative rules.
func (s *Session) checkField(ctx context.Context, field model.FieldConfig, value any) validate.Result {
	if node, ok := s.schema.Field(field.Name); ok {
		if result := s.vctx.ValidateAgainstSchema(value, node); !result.Valid {
			return result
		}
	}
	if field.Validator == "" {
		return validate.Result{Valid: true}
	}
	result, err := s.vctx.Validate(ctx, field.Validator, value)
	if err != nil {
		return validate.Result{Valid: false, Message: err.Error()}
	}
	return result
}

// Validate cancels any scheduled passes and synchronously validates every
// visible field against the current values. It reports whether the form as a
// whole is submittable; per-field outcomes land in the result set.
func (s *Session) Validate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, fmt.Errorf("session: closed")
	}
	for name, timer := range s.timers {
		timer.Stop()
		delete(s.timers, name)
	}
	s.pending = make(map[string]bool)
	visible := append([]string(nil), s.visible...)
	values := s.copyValuesLocked()
	s.mu.Unlock()

	ok := true
	results := make(map[string]validate.Result, len(visible))
	for _, name := range visible {
		field, found := s.form.Field(name)
		if !found {
			continue
		}
		result := s.checkField(ctx, field, values[name])
		results[name] = result
		if !result.Valid {
			ok = false
		}
	}

	s.mu.Lock()
	for name, result := range results {
		s.seq[name]++
		s.results[name] = result
	}
	s.mu.Unlock()
	return ok, nil
}

// Value returns the current value for a bind name.
func (s *Session) Value(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[name]
	return value, ok
}

// Values returns a copy of the current value bag.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyValuesLocked()
}

// Visible returns the currently visible bind names in declaration order.
func (s *Session) Visible() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visible...)
}

// IsPending reports whether the field has a scheduled or in-flight pass.
func (s *Session) IsPending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[name]
}

// Snapshot copies the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Visible:  append([]string(nil), s.visible...),
		Values:   s.copyValuesLocked(),
		Results:  make(map[string]validate.Result, len(s.results)),
		Defaults: s.schema.DefaultsFor(s.visible),
	}
	for name, result := range s.results {
		snap.Results[name] = result
	}
	for name := range s.pending {
		snap.Pending = append(snap.Pending, name)
	}
	return snap
}

// Reset restores the defaults, drops every result, and flushes the validation
// cache, returning the session to its freshly opened state.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session: closed")
	}
	for name, timer := range s.timers {
		timer.Stop()
		delete(s.timers, name)
	}
	s.values = s.schema.Defaults()
	s.results = make(map[string]validate.Result)
	s.pending = make(map[string]bool)
	s.seq = make(map[string]uint64)
	s.vctx.ClearCache()
	return s.recomputeVisibleLocked()
}

// Close cancels outstanding work and marks the session unusable. Further
// edits are ignored; results from in-flight passes are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for name, timer := range s.timers {
		timer.Stop()
		delete(s.timers, name)
	}
	s.pending = make(map[string]bool)
}

func (s *Session) recomputeVisible() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputeVisibleLocked()
}

// recomputeVisibleLocked re-derives the visible set from scratch and prunes
// results and pending flags for fields that just left it. Values of hidden
// fields stay in the bag so flipping a driver field back restores them.
func (s *Session) recomputeVisibleLocked() error {
	visible, err := s.form.VisibleFields(s.values)
	if err != nil {
		return err
	}
	s.visible = visible

	shown := make(map[string]bool, len(visible))
	for _, name := range visible {
		shown[name] = true
	}
	for name := range s.results {
		if !shown[name] {
			delete(s.results, name)
		}
	}
	for name := range s.pending {
		if !shown[name] {
			if timer, ok := s.timers[name]; ok {
				timer.Stop()
				delete(s.timers, name)
			}
			delete(s.pending, name)
		}
	}
	return nil
}

func (s *Session) isVisibleLocked(name string) bool {
	for _, v := range s.visible {
		if v == name {
			return true
		}
	}
	return false
}

func (s *Session) copyValuesLocked() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}
