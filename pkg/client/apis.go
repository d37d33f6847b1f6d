package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/types"
)

func getJSON[T any](c *Client, path, what string) (T, error) {
	var v T
	ret, err := c.Get(path)
	if err != nil {
		return v, pkgerrors.Wrapf(err, "failed to get %s", what)
	}
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return v, pkgerrors.Wrapf(err, "failed to unmarshal %s", what)
	}
	return v, nil
}

func (c *Client) GetProperty(p types.Property) (types.PropertyValue, error) {
	return getJSON[types.PropertyValue](c, "/properties/"+string(p), "property "+string(p))
}

func (c *Client) GetAttr(a types.Attr) (int64, error) {
	return getJSON[int64](c, "/attrs/"+string(a), "attribute "+string(a))
}

func (c *Client) GetOnline(s types.Supply) (bool, error) {
	return getJSON[bool](c, "/supplies/"+s.String()+"/online", s.String()+" online state")
}

func (c *Client) GetSnapshot() (types.Snapshot, error) {
	return getJSON[types.Snapshot](c, "/snapshot", "battery snapshot")
}

func (c *Client) GetStatus() (core.Report, error) {
	return getJSON[core.Report](c, "/status", "status")
}

func (c *Client) GetDebugText() (string, error) {
	ret, err := c.Get("/debug")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get debug text")
	}
	return ret, nil
}

func (c *Client) SetFullLevel(l int) (string, error) {
	return c.Put("/full-level", strconv.Itoa(l))
}

func (c *Client) GetChargerControl() (types.ControlState, error) {
	return getJSON[types.ControlState](c, "/charger-control", "charger control state")
}

func (c *Client) SetChargerControl(cmd types.Command) (string, error) {
	return c.Put("/charger-control", strconv.Itoa(int(cmd)))
}

func (c *Client) GetChargerTimer() (core.TimerState, error) {
	return getJSON[core.TimerState](c, "/charger-timer", "charger timer")
}

func (c *Client) SetChargerTimer(seconds int) (string, error) {
	return c.Put("/charger-timer", strconv.Itoa(seconds))
}

func (c *Client) Update(s types.Supply) (types.Snapshot, error) {
	var snap types.Snapshot
	ret, err := c.Post("/update/"+s.String(), "")
	if err != nil {
		return snap, pkgerrors.Wrapf(err, "failed to update %s", s)
	}
	if err := json.Unmarshal([]byte(ret), &snap); err != nil {
		return snap, pkgerrors.Wrapf(err, "failed to unmarshal battery snapshot")
	}
	return snap, nil
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	return getJSON[*config.RawFileConfig](c, "/config", "config")
}

func (c *Client) GetVersion() (string, error) {
	return getJSON[string](c, "/version", "version")
}

// WatchEvents streams daemon events to fn until ctx is done, the daemon
// closes the stream, or fn returns false.
func (c *Client) WatchEvents(ctx context.Context, fn func(events.Event) bool) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/events", "")
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to subscribe to events")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return readEvents(ctx, bufio.NewScanner(resp.Body), fn)
}

func readEvents(ctx context.Context, sc *bufio.Scanner, fn func(events.Event) bool) error {
	var (
		ev   events.Event
		data strings.Builder
	)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if ev.Name == "" && data.Len() == 0 {
				continue
			}
			ev.Data = json.RawMessage(data.String())
			if !fn(ev) {
				return nil
			}
			ev = events.Event{}
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}
