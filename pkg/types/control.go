package types

import "fmt"

// Command is a charger control command. The numeric values are the ones
// accepted by the charger-control request.
type Command int

const (
	CommandDisable Command = 0
	CommandEnable  Command = 1
	commandEnd     Command = 2
)

// Valid reports whether c is one of the two defined commands.
func (c Command) Valid() bool {
	return c >= CommandDisable && c < commandEnd
}

func (c Command) String() string {
	switch c {
	case CommandDisable:
		return "disable"
	case CommandEnable:
		return "enable"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ControlState is the last successfully commanded charger state.
type ControlState int

const (
	ControlDisabled ControlState = 0
	ControlEnabled  ControlState = 1
)

func (s ControlState) String() string {
	if s == ControlEnabled {
		return "enabled"
	}
	return "disabled"
}

// StateFor returns the control state a successful command leads to.
func StateFor(c Command) ControlState {
	if c == CommandEnable {
		return ControlEnabled
	}
	return ControlDisabled
}

func (s ControlState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ControlState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "enabled":
		*s = ControlEnabled
	case "disabled":
		*s = ControlDisabled
	default:
		return fmt.Errorf("unknown control state %q", string(b))
	}
	return nil
}
