package validate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/luthfidi/formflow/pkg/schema"
)

// DefaultTTL is how long a cached validation outcome stays trusted.
const DefaultTTL = 5 * time.Minute

// Result is the immutable outcome of one validation run.
type Result struct {
	Valid   bool
	Message string
}

// Validator checks a single value. Long-running validators should honor ctx;
// a returned error is a fault and is converted into an invalid Result at the
// dispatch boundary, never propagated.
type Validator func(ctx context.Context, value any) (Result, error)

// CrossFieldFunc checks a constraint spanning multiple fields.
type CrossFieldFunc func(values map[string]any) (Result, error)

// Option configures a Context at construction time.
type Option func(*Context)

// WithTTL overrides the cache entry lifetime.
func WithTTL(d time.Duration) Option {
	return func(c *Context) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock injects the time source, for tests exercising expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Context) {
		if now != nil {
			c.now = now
		}
	}
}

type cacheEntry struct {
	result    Result
	timestamp time.Time
}

// Context owns the validator registry, the fingerprint result cache, and the
// pending/result bookkeeping for one form session. It replaces what the
// original design kept as process-wide state: construct one per form mount,
// drop it on unmount, and no state leaks across unrelated forms.
//
// A single coarse mutex guards all tables; contention is negligible at form
// scale and a lost update would silently drop a validation result.
type Context struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	validators map[string]Validator
	cache      map[string]cacheEntry
	results    map[string]Result
	pending    map[string]int
	fallbackID uint64
}

// NewContext constructs an empty validation context with the default TTL.
func NewContext(opts ...Option) *Context {
	c := &Context{
		ttl:        DefaultTTL,
		now:        time.Now,
		validators: make(map[string]Validator),
		cache:      make(map[string]cacheEntry),
		results:    make(map[string]Result),
		pending:    make(map[string]int),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Register adds or overwrites a named validator.
func (c *Context) Register(name string, fn Validator) {
	if strings.TrimSpace(name) == "" || fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validators[name] = fn
}

// Validate runs the named registered validator against the value, consulting
// the fingerprint cache first. An unknown name is a caller error.
func (c *Context) Validate(ctx context.Context, name string, value any) (Result, error) {
	c.mu.Lock()
	fn, ok := c.validators[name]
	c.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("validate: unknown validator %q", name)
	}
	return c.ValidateWith(ctx, name, value, fn)
}

// ValidateWith runs an ad-hoc validator under a name, consulting the cache
// first. On a fresh or expired miss the validator runs and its outcome is
// cached under the (name, value) fingerprint. A validator fault becomes an
// invalid Result with the fault's message; nothing is cached for faults and
// the pending flag is still cleared, so one failing validator cannot take
// down the session.
//
// Concurrent calls for the same (name, value) are not deduplicated: each call
// re-invokes the validator and the last cache write wins. Callers wanting
// mutual exclusion serialize calls themselves.
func (c *Context) ValidateWith(ctx context.Context, name string, value any, fn Validator) (Result, error) {
	if fn == nil {
		return Result{}, fmt.Errorf("validate: validator %q is nil", name)
	}

	key := c.fingerprint(name, value)

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.results[name] = entry.result
		c.mu.Unlock()
		return entry.result, nil
	}
	c.pending[name]++
	c.mu.Unlock()

	result, err := fn(ctx, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[name] > 0 {
		c.pending[name]--
		if c.pending[name] == 0 {
			delete(c.pending, name)
		}
	}
	if err != nil {
		result = Result{Valid: false, Message: faultMessage(err)}
		c.results[name] = result
		return result, nil
	}
	c.cache[key] = cacheEntry{result: result, timestamp: c.now()}
	c.results[name] = result
	return result, nil
}

// IsPending reports whether a validate call for the name has not resolved.
func (c *Context) IsPending(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[name] > 0
}

// Result returns the last recorded outcome for a name.
func (c *Context) Result(name string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.results[name]
	return result, ok
}

// Results returns a copy of the current result set.
func (c *Context) Results() map[string]Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Result, len(c.results))
	for name, result := range c.results {
		out[name] = result
	}
	return out
}

// ClearCache drops cache entries whose key is prefixed by one of the given
// names. With no names it drops every entry and every stored result.
func (c *Context) ClearCache(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(names) == 0 {
		c.cache = make(map[string]cacheEntry)
		c.results = make(map[string]Result)
		return
	}
	for _, name := range names {
		prefix := name + ":"
		for key := range c.cache {
			if strings.HasPrefix(key, prefix) {
				delete(c.cache, key)
			}
		}
		delete(c.results, name)
	}
}

// ValidateAgainstSchema delegates to the schema node's own validation,
// translating the first failure into a single-message result. Schema checks
// are cheap and synchronous, so they bypass the cache.
func (c *Context) ValidateAgainstSchema(value any, node schema.FieldSchema) Result {
	if err := node.Validate(value); err != nil {
		return Result{Valid: false, Message: err.(*schema.RuleError).Message}
	}
	return Result{Valid: true}
}

// ValidateCrossField runs a multi-field predicate once, uncached: the outcome
// depends on the whole bag rather than one key, so it has no stable
// fingerprint. A fault follows the same conversion as named validators.
func (c *Context) ValidateCrossField(values map[string]any, fn CrossFieldFunc) Result {
	if fn == nil {
		return Result{Valid: false, Message: "validation failed"}
	}
	result, err := fn(values)
	if err != nil {
		return Result{Valid: false, Message: faultMessage(err)}
	}
	return result
}

// fingerprint derives the deterministic cache key for a (name, value) pair.
// Primitives key directly on their literal form; structured values serialize
// through go-json (map keys are emitted sorted, so identical values always
// produce identical bytes) and key on a digest. A value that cannot
// serialize, such as one with a circular reference, falls back to a type tag
// plus a monotonically increasing token, which disables caching for that
// value instead of crashing.
func (c *Context) fingerprint(name string, value any) string {
	switch v := value.(type) {
	case nil:
		return name + ":nil"
	case string:
		return name + ":s:" + v
	case bool:
		return name + ":b:" + fmt.Sprint(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return name + ":n:" + fmt.Sprint(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			c.mu.Lock()
			c.fallbackID++
			token := c.fallbackID
			c.mu.Unlock()
			return fmt.Sprintf("%s:!%T:%d", name, value, token)
		}
		sum := sha256.Sum256(data)
		return name + ":h:" + hex.EncodeToString(sum[:])
	}
}

func faultMessage(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return "validation failed"
	}
	return err.Error()
}
