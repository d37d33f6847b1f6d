package events

import "encoding/json"

// Event names.
const (
	SupplyChanged  = "supply.changed"
	ChargerControl = "charger.control"
	ChargerTimer   = "charger.timer"
)

// Event is a generic SSE event from daemon.
type Event struct {
	Name string          // SSE event name
	Data json.RawMessage // Raw JSON payload
}

// SupplyChangedEvent is the payload for supply.changed. It carries the
// status and capacity read right after the forced refresh.
type SupplyChangedEvent struct {
	Supply   string `json:"supply"`
	Status   string `json:"status"`
	Capacity int    `json:"capacity"`
	Ts       int64  `json:"ts"`
}

// ChargerControlEvent is the payload for charger.control.
type ChargerControlEvent struct {
	State string `json:"state"`
	Ts    int64  `json:"ts"`
}

// ChargerTimerEvent is the payload for charger.timer.
type ChargerTimerEvent struct {
	Armed    bool   `json:"armed"`
	ID       string `json:"id,omitempty"`
	Deadline int64  `json:"deadline,omitempty"`
	Ts       int64  `json:"ts"`
}

// DecodeAs decodes the event payload into T. An empty payload yields the
// zero value of T.
//
//	payload, err := events.DecodeAs[events.ChargerControlEvent](ev)
func DecodeAs[T any](e Event) (T, error) {
	var zero T
	if len(e.Data) == 0 {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, err
	}
	return v, nil
}
