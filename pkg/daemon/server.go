package daemon

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/types"
)

// Server serves the core over HTTP.
type Server struct {
	core *core.Core
	conf config.Config
	hub  *events.EventHub
	log  *logrus.Logger
}

func NewServer(c *core.Core, conf config.Config, hub *events.EventHub, log *logrus.Logger) *Server {
	return &Server{core: c, conf: conf, hub: hub, log: log}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(s.log))
	router.GET("/properties/:name", s.getProperty)
	router.GET("/attrs/:name", s.getAttr)
	router.GET("/supplies/:supply/online", s.getOnline)
	router.GET("/snapshot", s.getSnapshot)
	router.GET("/status", s.getStatus)
	router.GET("/debug", s.getDebugText)
	router.PUT("/full-level", s.setFullLevel)
	router.GET("/charger-control", s.getChargerControl)
	router.PUT("/charger-control", s.setChargerControl)
	router.GET("/charger-timer", s.getChargerTimer)
	router.PUT("/charger-timer", s.setChargerTimer)
	router.POST("/update/:supply", s.postUpdate)
	router.GET("/events", s.streamEvents)
	router.GET("/config", s.getConfig)
	router.GET("/version", getVersion)

	return router
}

// newCore builds a core that reports supply and charger changes on hub.
func newCore(hub *events.EventHub, log *logrus.Logger, opts ...core.Option) *core.Core {
	var c *core.Core

	base := []core.Option{
		core.WithLogger(log),
		core.WithSupplyNotifier(func(supply types.Supply) {
			ev := events.SupplyChangedEvent{Supply: supply.String(), Ts: time.Now().Unix()}
			if v, err := c.Get(types.PropStatus); err == nil {
				ev.Status = v.Text
			}
			if v, err := c.Get(types.PropCapacity); err == nil {
				ev.Capacity = v.Value
			}
			hub.Publish(events.SupplyChanged, ev)
		}),
		core.WithControlNotifier(func(state types.ControlState) {
			hub.Publish(events.ChargerControl, events.ChargerControlEvent{
				State: state.String(),
				Ts:    time.Now().Unix(),
			})
		}),
		core.WithTimerNotifier(func(st core.TimerState) {
			hub.Publish(events.ChargerTimer, timerEvent(st))
		}),
	}
	c = core.New(append(base, opts...)...)
	return c
}

func timerEvent(st core.TimerState) events.ChargerTimerEvent {
	ev := events.ChargerTimerEvent{Armed: st.Armed, ID: st.ID, Ts: time.Now().Unix()}
	if st.Armed {
		ev.Deadline = st.Deadline.Unix()
	}
	return ev
}
