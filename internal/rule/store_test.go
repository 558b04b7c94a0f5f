package rule

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hearthd/hearth-core/internal/device"
)

// testDB creates an in-memory SQLite database with the rules schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	schema := `
		CREATE TABLE rules (
			name        TEXT PRIMARY KEY,
			description TEXT NOT NULL DEFAULT '',
			"trigger"   TEXT NOT NULL,
			conditions  TEXT NOT NULL DEFAULT '[]',
			actions     TEXT NOT NULL DEFAULT '[]',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		) STRICT;`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// testStore creates a rule store over a fresh in-memory database.
func testStore(t *testing.T) *Store {
	t.Helper()

	store := NewStore(NewSQLiteRepository(testDB(t)))
	if err := store.RefreshCache(context.Background()); err != nil {
		t.Fatalf("RefreshCache() error = %v", err)
	}
	return store
}

// testRegistry builds a registry with a light, a motion sensor, and a lock.
func testRegistry(t *testing.T) *device.Registry {
	t.Helper()

	reg := device.NewRegistry()
	snapshots := []device.Snapshot{
		{
			ID:           "light-living",
			Label:        "Living Room Light",
			Room:         "living_room",
			Capabilities: []string{"switch", "switch_level"},
			Attributes:   map[string]any{"switch": "off", "level": 0},
		},
		{
			ID:           "sensor-living",
			Label:        "Living Room Sensor",
			Room:         "living_room",
			Capabilities: []string{"motion_sensor", "temperature_sensor"},
			Attributes:   map[string]any{"motion": "inactive", "temperature": 21.5},
		},
		{
			ID:           "lock-front",
			Label:        "Front Door",
			Room:         "hallway",
			Capabilities: []string{"lock"},
			Attributes:   map[string]any{"lock": "locked"},
		},
	}
	for _, s := range snapshots {
		if _, err := reg.Upsert(s); err != nil {
			t.Fatalf("failed to seed device %q: %v", s.ID, err)
		}
	}
	return reg
}

// fakeSink records issued commands and can be told to fail.
type fakeSink struct {
	mu       sync.Mutex
	setCalls []sinkSetCall
	runCalls []sinkRunCall
	err      error
}

type sinkSetCall struct {
	deviceID  string
	attribute string
	value     any
}

type sinkRunCall struct {
	deviceID string
	command  string
	params   map[string]any
}

func (f *fakeSink) SetAttribute(_ context.Context, deviceID, attribute string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls = append(f.setCalls, sinkSetCall{deviceID, attribute, value})
	return f.err
}

func (f *fakeSink) RunCommand(_ context.Context, deviceID, command string, params map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runCalls = append(f.runCalls, sinkRunCall{deviceID, command, params})
	return f.err
}

func (f *fakeSink) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.setCalls)
}

// motionRule triggers when the living room sensor reports motion and
// turns the light on, gated on the light currently being off.
func motionRule() *Rule {
	return &Rule{
		Name:        "motion_light",
		Description: "Turn on the light when motion is detected",
		Trigger: Trigger{
			Type: TriggerDeviceEvent,
			DeviceEvent: &DeviceEventTrigger{
				DeviceID:  "sensor-living",
				Attribute: "motion",
				Operator:  OpChangedTo,
				Value:     "active",
			},
		},
		Conditions: []Condition{
			{DeviceID: "light-living", Attribute: "switch", Operator: OpEquals, Value: "off"},
		},
		Actions: []Action{
			{Type: ActionSetAttribute, SetAttribute: &SetAttributeAction{
				DeviceID: "light-living", Attribute: "switch", Value: "on",
			}},
		},
	}
}

// ─── Store ───

func TestStore_InstallAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	got, err := store.Get(ctx, "motion_light")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Trigger.Type != TriggerDeviceEvent {
		t.Errorf("Trigger.Type = %q, want device_event", got.Trigger.Type)
	}
	if got.Trigger.DeviceEvent.DeviceID != "sensor-living" {
		t.Errorf("Trigger.DeviceEvent.DeviceID = %q", got.Trigger.DeviceEvent.DeviceID)
	}
	if len(got.Conditions) != 1 || len(got.Actions) != 1 {
		t.Errorf("Conditions = %d, Actions = %d, want 1 and 1", len(got.Conditions), len(got.Actions))
	}
}

func TestStore_Install_DuplicateName(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if err := store.Install(ctx, motionRule()); !errors.Is(err, ErrRuleExists) {
		t.Errorf("Install() error = %v, want ErrRuleExists", err)
	}
}

func TestStore_Remove(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if err := store.Remove(ctx, "motion_light"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := store.Get(ctx, "motion_light"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("Get() after remove error = %v, want ErrRuleNotFound", err)
	}
	if len(store.Snapshot()) != 0 {
		t.Error("Snapshot() not empty after remove")
	}
}

func TestStore_Remove_NotFound(t *testing.T) {
	store := testStore(t)

	if err := store.Remove(context.Background(), "ghost"); !errors.Is(err, ErrRuleNotFound) {
		t.Errorf("Remove() error = %v, want ErrRuleNotFound", err)
	}
}

func TestStore_List_InstallOrder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		r := motionRule()
		r.Name = name
		if err := store.Install(ctx, r); err != nil {
			t.Fatalf("Install(%q) error = %v", name, err)
		}
	}

	summaries := store.List(ctx)
	want := []string{"zulu", "alpha", "mike"}
	if len(summaries) != len(want) {
		t.Fatalf("List() returned %d rules, want %d", len(summaries), len(want))
	}
	for i, s := range summaries {
		if s.Name != want[i] {
			t.Errorf("List()[%d].Name = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestStore_Snapshot_IsIsolated(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	snap := store.Snapshot()
	snap[0].Actions[0].SetAttribute.Value = "tampered"

	fresh, err := store.Get(ctx, "motion_light")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fresh.Actions[0].SetAttribute.Value != "on" {
		t.Error("modifying a snapshot leaked into the cache")
	}
}

func TestStore_RefreshCache_SurvivesRestart(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := NewStore(NewSQLiteRepository(db))
	if err := first.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	second := NewStore(NewSQLiteRepository(db))
	if err := second.RefreshCache(ctx); err != nil {
		t.Fatalf("RefreshCache() error = %v", err)
	}

	got, err := second.Get(ctx, "motion_light")
	if err != nil {
		t.Fatalf("Get() after refresh error = %v", err)
	}
	if got.Trigger.DeviceEvent == nil || got.Trigger.DeviceEvent.Value != "active" {
		t.Errorf("trigger did not survive persistence round trip: %+v", got.Trigger)
	}
}

func TestStore_Count(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0", store.Count())
	}
	if err := store.Install(ctx, motionRule()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}
