package core

import (
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/types"
)

type testEnv struct {
	core  *Core
	sim   *adapter.Simulated
	clock *clock.Mock
	hook  *test.Hook
}

// newTestEnv returns a registered Core backed by a Simulated adapter and a
// mock clock. The core is closed when the test ends.
func newTestEnv(t *testing.T, fn func(s *types.Snapshot)) *testEnv {
	t.Helper()

	s := types.DefaultSnapshot()
	if fn != nil {
		fn(&s)
	}
	sim := adapter.NewSimulated(s)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.TraceLevel)
	clk := clock.NewMock()

	c := New(WithClock(clk), WithLogger(log))
	if err := c.Register(sim); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	t.Cleanup(c.Close)

	return &testEnv{core: c, sim: sim, clock: clk, hook: hook}
}

func countMessages(hook *test.Hook, msg string) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}
