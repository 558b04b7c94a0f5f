package rule

import (
	"context"
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the rule package.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store holds installed rules. It wraps a Repository and keeps an
// in-memory cache in install order, populated on startup via
// RefreshCache and kept in sync by Install and Remove.
//
// The cache is what the engine's matching path reads; Snapshot returns
// deep copies so matching and condition evaluation never hold the store
// lock across an action-sequence execution.
//
// All public methods are thread-safe.
type Store struct {
	repo Repository

	cacheMu sync.RWMutex
	cache   map[string]*Rule
	order   []string // Install order for stable listings

	logger Logger
}

// NewStore creates a rule store backed by the given repository.
func NewStore(repo Repository) *Store {
	return &Store{
		repo:   repo,
		cache:  make(map[string]*Rule),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// RefreshCache reloads all rules from the repository into the cache.
// This should be called on application startup, before events flow.
func (s *Store) RefreshCache(ctx context.Context) error {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache = make(map[string]*Rule, len(rules))
	s.order = make([]string, 0, len(rules))
	for i := range rules {
		r := rules[i]
		s.cache[r.Name] = r.DeepCopy()
		s.order = append(s.order, r.Name)
	}

	s.logger.Info("rule cache refreshed", "count", len(rules))
	return nil
}

// Install persists and caches a new rule.
// Returns ErrRuleExists if the name is already in use. Validation
// happens in the engine before this is called; the store only guards
// uniqueness and durability.
func (s *Store) Install(ctx context.Context, r *Rule) error {
	s.cacheMu.RLock()
	_, taken := s.cache[r.Name]
	s.cacheMu.RUnlock()
	if taken {
		return fmt.Errorf("%w: %q", ErrRuleExists, r.Name)
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}

	s.cacheMu.Lock()
	s.cache[r.Name] = r.DeepCopy()
	s.order = append(s.order, r.Name)
	s.cacheMu.Unlock()

	s.logger.Info("rule installed", "name", r.Name, "trigger", r.Trigger.Type)
	return nil
}

// Remove uninstalls a rule from persistence and cache.
// Returns ErrRuleNotFound if the name does not exist. Removal stops
// future triggering immediately; it never cancels in-flight executions.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}

	s.cacheMu.Lock()
	delete(s.cache, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.cacheMu.Unlock()

	s.logger.Info("rule uninstalled", "name", name)
	return nil
}

// Get retrieves a rule by name.
// The returned rule is a deep copy; callers can safely modify it.
func (s *Store) Get(_ context.Context, name string) (*Rule, error) {
	s.cacheMu.RLock()
	cached, ok := s.cache[name]
	s.cacheMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRuleNotFound, name)
	}
	return cached.DeepCopy(), nil
}

// List returns all rule summaries in install order.
func (s *Store) List(_ context.Context) []Summary {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	summaries := make([]Summary, 0, len(s.order))
	for _, name := range s.order {
		r := s.cache[name]
		summaries = append(summaries, Summary{Name: r.Name, Description: r.Description})
	}
	return summaries
}

// Snapshot returns deep copies of all installed rules in install order.
// The matching path works from a snapshot so installs and uninstalls
// proceeding concurrently never block or corrupt an in-progress scan.
func (s *Store) Snapshot() []Rule {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	rules := make([]Rule, 0, len(s.order))
	for _, name := range s.order {
		rules = append(rules, *s.cache[name].DeepCopy())
	}
	return rules
}

// Count returns the number of installed rules.
func (s *Store) Count() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return len(s.cache)
}
