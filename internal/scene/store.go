package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hearthd/hearth-core/internal/capability"
	"github.com/hearthd/hearth-core/internal/device"
)

// Logger defines the logging interface used by the Store.
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

// CommandSink issues device commands to the hub. The transport bounds
// each call with its own timeout; a returned error is an ordinary
// command failure, never fatal to the caller.
type CommandSink interface {
	SetAttribute(ctx context.Context, deviceID, attribute string, value any) error
}

// Store provides scene management: durable named bundles of device
// settings with apply and check semantics. It wraps a Repository and
// keeps an in-memory cache for fast lookups, populated on startup via
// RefreshCache and kept in sync by the CRUD operations.
//
// All public methods are thread-safe.
type Store struct {
	repo    Repository
	devices DeviceLookup
	catalog *capability.Catalog
	sink    CommandSink

	cacheMu sync.RWMutex
	cache   map[string]*Scene

	logger Logger
}

// NewStore creates a scene store. The repository provides persistence;
// devices and catalog back validation and checking; sink carries applied
// settings out to the hub.
func NewStore(repo Repository, devices DeviceLookup, catalog *capability.Catalog, sink CommandSink) *Store {
	return &Store{
		repo:    repo,
		devices: devices,
		catalog: catalog,
		sink:    sink,
		cache:   make(map[string]*Scene),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// RefreshCache reloads all scenes from the repository into the cache.
// This should be called on application startup.
func (s *Store) RefreshCache(ctx context.Context) error {
	scenes, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading scenes: %w", err)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache = make(map[string]*Scene, len(scenes))
	for i := range scenes {
		sc := scenes[i]
		s.cache[sc.Name] = sc.DeepCopy()
	}

	s.logger.Info("scene cache refreshed", "count", len(scenes))
	return nil
}

// Create validates, persists, and caches a new scene.
// Returns ErrSceneExists if the name is already in use.
func (s *Store) Create(ctx context.Context, sc *Scene) error {
	if err := Validate(sc, s.devices, s.catalog); err != nil {
		return err
	}

	s.cacheMu.RLock()
	_, taken := s.cache[sc.Name]
	s.cacheMu.RUnlock()
	if taken {
		return fmt.Errorf("%w: %q", ErrSceneExists, sc.Name)
	}

	if err := s.repo.Create(ctx, sc); err != nil {
		return err
	}

	s.cacheMu.Lock()
	s.cache[sc.Name] = sc.DeepCopy()
	s.cacheMu.Unlock()

	s.logger.Info("scene created", "name", sc.Name, "settings", len(sc.Settings))
	return nil
}

// Delete removes a scene from persistence and cache.
// Returns ErrSceneNotFound if the name does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}

	s.cacheMu.Lock()
	delete(s.cache, name)
	s.cacheMu.Unlock()

	s.logger.Info("scene deleted", "name", name)
	return nil
}

// Get retrieves a scene by name.
// The returned scene is a deep copy; callers can safely modify it.
func (s *Store) Get(_ context.Context, name string) (*Scene, error) {
	s.cacheMu.RLock()
	cached, ok := s.cache[name]
	s.cacheMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
	}
	return cached.DeepCopy(), nil
}

// List returns all scene summaries in creation order.
func (s *Store) List(_ context.Context) []Summary {
	s.cacheMu.RLock()
	scenes := make([]*Scene, 0, len(s.cache))
	for _, sc := range s.cache {
		scenes = append(scenes, sc)
	}
	s.cacheMu.RUnlock()

	sort.Slice(scenes, func(i, j int) bool {
		if !scenes[i].CreatedAt.Equal(scenes[j].CreatedAt) {
			return scenes[i].CreatedAt.Before(scenes[j].CreatedAt)
		}
		return scenes[i].Name < scenes[j].Name
	})

	summaries := make([]Summary, len(scenes))
	for i, sc := range scenes {
		summaries[i] = Summary{Name: sc.Name, Description: sc.Description}
	}
	return summaries
}

// Apply issues one command per setting via the command sink, in declared
// order. A failed setting is recorded in its result and the remaining
// settings still run; partial failure is reported, not fatal.
func (s *Store) Apply(ctx context.Context, name string) (*ApplyResult, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &ApplyResult{
		Scene:    name,
		Results:  make([]SettingResult, len(sc.Settings)),
		IssuedAt: time.Now().UTC(),
	}

	for i, setting := range sc.Settings {
		res := SettingResult{
			Index:     i,
			DeviceID:  setting.DeviceID,
			Attribute: setting.Attribute,
			OK:        true,
		}
		if cmdErr := s.sink.SetAttribute(ctx, setting.DeviceID, setting.Attribute, setting.Value); cmdErr != nil {
			res.OK = false
			res.Error = cmdErr.Error()
			result.Failed++
			s.logger.Warn("scene setting command failed",
				"scene", name,
				"device_id", setting.DeviceID,
				"attribute", setting.Attribute,
				"error", cmdErr,
			)
		}
		result.Results[i] = res
	}

	s.logger.Info("scene applied",
		"scene", name,
		"settings", len(sc.Settings),
		"failed", result.Failed,
	)
	return result, nil
}

// Check compares the registry's current attribute values against the
// scene's targets without issuing any commands. Devices or attributes
// the registry has never observed count as not matching.
func (s *Store) Check(ctx context.Context, name string) (*CheckResult, error) {
	sc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		Scene:      name,
		Overall:    true,
		PerSetting: make([]bool, len(sc.Settings)),
	}

	for i, setting := range sc.Settings {
		current, have, attrErr := s.devices.Attribute(setting.DeviceID, setting.Attribute)
		match := attrErr == nil && have && device.ValuesEqual(current, setting.Value)
		result.PerSetting[i] = match
		if !match {
			result.Overall = false
		}
	}
	return result, nil
}

// Count returns the number of cached scenes.
func (s *Store) Count() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return len(s.cache)
}
