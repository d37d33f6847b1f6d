package daemon

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/battcore/battcore/pkg/adapter"
	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/types"
	"github.com/battcore/battcore/pkg/version"
)

func (s *Server) getProperty(c *gin.Context) {
	v, err := s.core.Get(types.Property(c.Param("name")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, v)
}

func (s *Server) getAttr(c *gin.Context) {
	v, err := s.core.Attr(types.Attr(c.Param("name")))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, v)
}

func (s *Server) getOnline(c *gin.Context) {
	supply, err := types.ParseSupply(c.Param("supply"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.core.Online(supply))
}

func (s *Server) getSnapshot(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.core.Snapshot())
}

func (s *Server) getStatus(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.core.Report())
}

func (s *Server) getDebugText(c *gin.Context) {
	text, err := s.core.DebugText()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) setFullLevel(c *gin.Context) {
	var l int
	if err := c.BindJSON(&l); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := s.core.SetFullLevel(l); err != nil {
		abortWithError(c, err)
		return
	}

	s.conf.SetFullLevel(l)
	if err := s.conf.Save(); err != nil {
		s.log.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("set full level to %d%%", l))
}

func (s *Server) getChargerControl(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.core.ChargerControlState())
}

func (s *Server) setChargerControl(c *gin.Context) {
	var cmd int
	if err := c.BindJSON(&cmd); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := s.core.SetChargerSwitch(types.Command(cmd)); err != nil {
		abortWithError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("charging %s", s.core.ChargerControlState()))
}

func (s *Server) getChargerTimer(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, s.core.TimerState())
}

func (s *Server) setChargerTimer(c *gin.Context) {
	var seconds int
	if err := c.BindJSON(&seconds); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := s.core.SetChargerTimer(seconds); err != nil {
		abortWithError(c, err)
		return
	}

	if seconds == 0 {
		c.IndentedJSON(http.StatusCreated, "charging re-enabled")
		return
	}
	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("charging disabled for %ds", seconds))
}

func (s *Server) postUpdate(c *gin.Context) {
	supply, err := types.ParseSupply(c.Param("supply"))
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := s.core.Update(supply); err != nil {
		abortWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, s.core.Snapshot())
}

// streamEvents relays hub events as server-sent events until the client
// goes away or the hub is closed.
func (s *Server) streamEvents(c *gin.Context) {
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	c.Stream(func(io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

// applyFullLevel pushes the configured full level to adapters that can hold
// one.
func applyFullLevel(c *core.Core, conf config.Config, log *logrus.Logger) {
	lvl, ok := conf.FullLevel()
	if !ok || !c.Capabilities().Has(adapter.CapSetFullThreshold) {
		return
	}
	if err := c.SetFullLevel(lvl); err != nil {
		log.Warnf("failed to apply configured full level %d%%: %v", lvl, err)
	}
}
