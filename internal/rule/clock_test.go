package rule

import (
	"testing"
	"time"

	"github.com/hearthd/hearth-core/internal/capability"
)

func TestClock_StartStop(t *testing.T) {
	fx := testEngine(t)

	clock := NewClock(fx.engine, time.UTC, nil)
	if err := clock.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	clock.Stop()
}

func TestClock_StopWithoutStart(t *testing.T) {
	engine := NewEngine(testStore(t), testRegistry(t), capability.Default(), &fakeSink{}, &fakeSceneApplier{}, nil)
	t.Cleanup(engine.Stop)

	clock := NewClock(engine, nil, nil)
	clock.Stop() // must not panic
}
