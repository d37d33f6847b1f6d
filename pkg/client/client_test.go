package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/types"
)

func newTestDaemon(t *testing.T) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `"v1.2.3"`)
	})
	mux.HandleFunc("/attrs/batt_vol", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "4000")
	})
	mux.HandleFunc("/charger-control", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `"disabled"`)
			return
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != "1" && string(b) != "0" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `"invalid input: charger command 3"`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `"got %s"`, b)
	})
	mux.HandleFunc("/events", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event:charger.control\ndata:{\"state\":\"disabled\",\"ts\":1}\n\n")
		fmt.Fprint(w, "event:charger.timer\ndata:{\"armed\":true,\"ts\":2}\n\n")
	})

	sock := filepath.Join(t.TempDir(), "d.sock")
	l, err := net.Listen("unix", sock)
	require.NoError(t, err)
	srv := &http.Server{Handler: mux}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return NewClient(sock)
}

func TestClientGet(t *testing.T) {
	c := newTestDaemon(t)

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", v)

	mv, err := c.GetAttr(types.AttrBattVol)
	require.NoError(t, err)
	assert.EqualValues(t, 4000, mv)

	st, err := c.GetChargerControl()
	require.NoError(t, err)
	assert.Equal(t, types.ControlDisabled, st)
}

func TestClientPutAndErrors(t *testing.T) {
	c := newTestDaemon(t)

	msg, err := c.SetChargerControl(types.CommandEnable)
	require.NoError(t, err)
	assert.Equal(t, `"got 1"`, msg)

	_, err = c.SetChargerControl(types.Command(3))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "got 400: invalid input: charger command 3", se.Error())

	_, err = c.GetStatus()
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Send("DELETE", "/version", "")
	assert.Error(t, err)
}

func TestClientDaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))

	_, err := c.GetVersion()
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestWatchEvents(t *testing.T) {
	c := newTestDaemon(t)

	var got []events.Event
	err := c.WatchEvents(context.Background(), func(ev events.Event) bool {
		got = append(got, ev)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events.ChargerControl, got[0].Name)

	timer, err := events.DecodeAs[events.ChargerTimerEvent](got[1])
	require.NoError(t, err)
	assert.True(t, timer.Armed)
}

func TestReadEventsStopsWhenAsked(t *testing.T) {
	stream := "event:a\ndata:1\n\n\n" + "event:b\ndata: {\"x\":\ndata:2}\n\n" + "event:c\ndata:3\n\n"

	var names []string
	var last events.Event
	err := readEvents(context.Background(), bufio.NewScanner(strings.NewReader(stream)), func(ev events.Event) bool {
		names = append(names, ev.Name)
		last = ev
		return ev.Name != "b"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, "{\"x\":\n2}", string(last.Data))
}
