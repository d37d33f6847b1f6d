package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/mqtt"
	"github.com/battcore/battcore/pkg/smc"
	"github.com/battcore/battcore/pkg/sysbattery"
	"github.com/battcore/battcore/pkg/types"
)

// Options configures Run.
type Options struct {
	ConfigPath     string
	UnixSocketPath string
	AllowNonRoot   bool
}

// newAdapter opens the hardware backend named by kind. The returned func
// releases it.
func newAdapter(kind string, log *logrus.Logger) (adapter.HardwareAdapter, func(), error) {
	switch kind {
	case config.AdapterSMC:
		conn := smc.New()
		if err := conn.Open(); err != nil {
			return nil, nil, pkgerrors.Wrap(err, "failed to open SMC")
		}
		return smc.NewDriver(conn), func() {
			log.Info("closing smc connection")
			if err := conn.Close(); err != nil {
				log.Errorf("failed to close smc connection: %v", err)
			}
		}, nil
	case config.AdapterSystem:
		return sysbattery.New(0), func() {}, nil
	case config.AdapterMock:
		log.Warn("using the simulated battery adapter: telemetry is not real")
		return adapter.NewSimulated(types.DefaultSnapshot()), func() {}, nil
	default:
		return nil, nil, pkgerrors.Errorf("unknown adapter %q", kind)
	}
}

func Run(opts Options) error {
	log := logrus.StandardLogger()

	conf, err := config.NewFile(opts.ConfigPath)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to parse config during startup")
	}
	log.WithFields(conf.LogrusFields()).Infof("config loaded")

	hub := events.NewEventHub()
	defer hub.Close()

	hw, closeAdapter, err := newAdapter(conf.Adapter(), log)
	if err != nil {
		return err
	}
	defer closeAdapter()

	c := newCore(hub, log)
	if err := c.Register(hw); err != nil {
		return pkgerrors.Wrap(err, "failed to register battery adapter")
	}
	applyFullLevel(c, conf, log)

	poller := NewPoller(func() {
		if err := c.Update(types.SupplyBattery); err != nil {
			log.Errorf("periodic update failed: %v", err)
		}
	}, log)
	if err := poller.Schedule(conf.PollSchedule()); err != nil {
		return err
	}
	poller.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if mc := conf.MQTT(); mc.Enabled() {
		pub := mqtt.New(mc, log)
		if err := pub.Connect(); err != nil {
			log.Errorf("MQTT disabled: %v", err)
		} else {
			defer pub.Close()
			go pub.Run(ctx, hub.Subscribe())
		}
	}

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				log.Errorf("failed to reload config: %v", err)
				continue
			}
			if err := poller.Schedule(conf.PollSchedule()); err != nil {
				log.Errorf("failed to apply poll schedule: %v", err)
			}
			log.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	srv := &http.Server{
		Handler:           NewServer(c, conf, hub, log).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// A socket left behind by a crashed daemon would make Listen fail.
	if err := os.Remove(opts.UnixSocketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", opts.UnixSocketPath)
	}
	l, err := net.Listen("unix", opts.UnixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", opts.UnixSocketPath)
	}

	if conf.AllowNonRootAccess() || opts.AllowNonRoot {
		log.Infof("non-root access is allowed, changing permissions of %s to 0777", opts.UnixSocketPath)
		if err := os.Chmod(opts.UnixSocketPath, 0777); err != nil {
			return pkgerrors.Wrap(err, "failed to change socket permissions")
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		log.Infof("caught signal \"%s\": shutting down.", sig)
	case err := <-serveErr:
		log.Errorf("http server failed: %v", err)
	}

	shutdown(srv, hub, poller, c, log)
	log.Info("exiting")
	return nil
}

// shutdown stops serving, stops the alarm and worker, and leaves the charger
// enabled.
func shutdown(srv *http.Server, hub *events.EventHub, poller *Poller, c *core.Core, log *logrus.Logger) {
	// Ends open event streams, which Shutdown would otherwise wait for.
	hub.Close()

	log.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	poller.Stop()
	c.Close()
	reenableCharging(c, log)
}

func reenableCharging(c *core.Core, log *logrus.Logger) {
	if c.ChargerControlState() != types.ControlDisabled {
		return
	}
	if err := c.SetChargerSwitch(types.CommandEnable); err != nil {
		log.Errorf("failed to re-enable charging before exiting: %v", err)
		return
	}
	log.Info("charging re-enabled before exiting")
}
