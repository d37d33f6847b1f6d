package daemon

import (
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/config"
)

// Poller runs a task on a cron schedule. A run still in progress when the
// next one is due makes the next one skip.
type Poller struct {
	mu    sync.Mutex
	cron  *cron.Cron
	entry cron.EntryID
	spec  string
	task  func()
}

func NewPoller(task func(), log *logrus.Logger) *Poller {
	if task == nil {
		panic("task function cannot be nil")
	}

	l := cronLogger{log: log}
	return &Poller{
		cron: cron.New(
			cron.WithParser(config.ScheduleParser),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		task: task,
	}
}

// Schedule replaces the current schedule with spec. On a parse error the
// previous schedule stays in place.
func (p *Poller) Schedule(spec string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if spec == p.spec {
		return nil
	}

	id, err := p.cron.AddFunc(spec, p.task)
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid schedule %q", spec)
	}
	if p.entry != 0 {
		p.cron.Remove(p.entry)
	}
	p.entry = id
	p.spec = spec

	return nil
}

func (p *Poller) Start() {
	p.cron.Start()
}

// Stop stops the poller and waits for a running task to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

// Status returns the active spec and the next run. The next run is zero
// before Start.
func (p *Poller) Status() (spec string, next time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec, p.cron.Entry(p.entry).Next
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	log *logrus.Logger
}

func (l cronLogger) fields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			fields[k] = keysAndValues[i+1]
		}
	}
	return fields
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Trace("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(l.fields(keysAndValues)).Errorf("cron: %s: %v", msg, err)
}
