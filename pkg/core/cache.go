package core

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

const (
	// DefaultMaxAge is the staleness accepted by property reads.
	DefaultMaxAge = 300 * time.Millisecond
	// refreshLogInterval throttles the refresh diagnostic line.
	refreshLogInterval = 300 * time.Millisecond
)

// Cache owns the telemetry snapshot and decides when it has to be fetched
// again from the adapter. Every read and write of the snapshot, the refresh
// timestamp and the charge-full latch happens under mu.
type Cache struct {
	mu sync.Mutex

	clock   clock.Clock
	log     *logrus.Logger
	adapter adapter.HardwareAdapter

	snapshot    types.Snapshot
	lastRefresh time.Time
	refreshed   bool
	fullLatch   bool
}

// NewCache returns a cache holding the default snapshot and no adapter.
func NewCache(clk clock.Clock, log *logrus.Logger) *Cache {
	return &Cache{
		clock:    clk,
		log:      log,
		snapshot: types.DefaultSnapshot(),
	}
}

func (c *Cache) attach(a adapter.HardwareAdapter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapter = a
}

// Refresh fetches new telemetry unless the snapshot is younger than maxAge.
// A maxAge of zero always fetches. On failure the previous snapshot is kept.
func (c *Cache) Refresh(maxAge time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(maxAge)
}

func (c *Cache) refreshLocked(maxAge time.Duration) error {
	now := c.clock.Now()
	if c.refreshed && now.Sub(c.lastRefresh) < maxAge {
		return nil
	}

	if c.adapter == nil || !c.adapter.Capabilities().Has(adapter.CapFetch) {
		return ErrNoAdapter
	}

	// Fetch into a copy so a failing adapter cannot leave a half-written
	// snapshot behind.
	next := c.snapshot
	if err := c.adapter.Fetch(&next); err != nil {
		return pkgerrors.Wrap(err, "failed to fetch battery info")
	}
	next.Normalize()

	if !c.refreshed || now.Sub(c.lastRefresh) > refreshLogInterval {
		c.log.WithFields(logrus.Fields{
			"battId":           next.BatteryID,
			"level":            next.LevelPercent,
			"voltage":          next.VoltageMV,
			"temperature":      next.TemperatureDeciC,
			"current":          next.CurrentMA,
			"dischargeCurrent": next.DischargeCurrentMA,
			"chargingSource":   next.ChargingSource.String(),
			"chargingEnabled":  next.ChargingEnabled,
			"overVchg":         next.OverVchg,
		}).Debug("battery info refreshed")
	}

	c.snapshot = next
	c.lastRefresh = now
	c.refreshed = true
	return nil
}

// Snapshot refreshes with maxAge and returns a copy of the snapshot. The copy
// is valid even when the refresh failed; the error is returned alongside it.
func (c *Cache) Snapshot(maxAge time.Duration) (types.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.refreshLocked(maxAge)
	return c.snapshot, err
}

// Peek returns the snapshot without refreshing.
func (c *Cache) Peek() types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Status refreshes with maxAge, resolves the charging status and stores the
// updated charge-full latch, all in one critical section.
func (c *Cache) Status(maxAge time.Duration) (types.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.refreshLocked(maxAge)
	status, latch := Resolve(c.snapshot, c.fullLatch)
	c.fullLatch = latch
	return status, err
}

// FullLatch reports the charge-full latch.
func (c *Cache) FullLatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullLatch
}

// LastRefresh returns when the snapshot was last fetched, and false if it
// never was.
func (c *Cache) LastRefresh() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh, c.refreshed
}
