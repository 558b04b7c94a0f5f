package rule

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Clock drives TimeOfDay triggers. It runs a once-per-minute cron job
// that hands the current wall-clock time to the engine's time-trigger
// scan, in the site's configured timezone.
type Clock struct {
	engine *Engine
	loc    *time.Location
	cron   *cron.Cron
	logger Logger
}

// NewClock creates a clock for the given engine. A nil location means
// the system local time.
func NewClock(engine *Engine, loc *time.Location, logger Logger) *Clock {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Clock{
		engine: engine,
		loc:    loc,
		logger: logger,
	}
}

// Start begins the periodic scan. The first scan happens at the top of
// the next minute.
func (c *Clock) Start() error {
	c.cron = cron.New(cron.WithLocation(c.loc))
	if _, err := c.cron.AddFunc("* * * * *", func() {
		c.engine.ScanTimeTriggers(time.Now().In(c.loc))
	}); err != nil {
		return err
	}
	c.cron.Start()
	c.logger.Info("time-trigger clock started", "timezone", c.loc.String())
	return nil
}

// Stop halts the scan and waits for any scan in progress to finish.
// In-flight executions launched by earlier scans are unaffected.
func (c *Clock) Stop() {
	if c.cron == nil {
		return
	}
	<-c.cron.Stop().Done()
	c.logger.Info("time-trigger clock stopped")
}
