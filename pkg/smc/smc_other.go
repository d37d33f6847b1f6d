//go:build !darwin

package smc

import "errors"

// ErrNoSMC is returned when opening the SMC on a platform without one.
var ErrNoSMC = errors.New("SMC is only available on macOS")

type noConnection struct{}

func (noConnection) Open() error { return ErrNoSMC }
func (noConnection) Close() error { return nil }
func (noConnection) Read(string) (Value, error) { return Value{}, ErrNoSMC }
func (noConnection) Write(string, []byte) error { return ErrNoSMC }

// New returns an AppleSMC whose Open always fails.
func New() *AppleSMC {
	return &AppleSMC{
		conn: noConnection{},
	}
}
