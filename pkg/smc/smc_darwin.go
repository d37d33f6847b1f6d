//go:build darwin

package smc

import (
	"errors"

	"github.com/charlie0129/gosmc"
)

// gosmcConnection adapts a gosmc connection to Connection.
type gosmcConnection struct {
	conn gosmc.Connection
}

func (c gosmcConnection) Open() error  { return c.conn.Open() }
func (c gosmcConnection) Close() error { return c.conn.Close() }

func (c gosmcConnection) Read(key string) (Value, error) {
	v, err := c.conn.Read(key)
	if errors.Is(err, gosmc.ErrNoData) {
		err = ErrNoData
	}
	return Value{Key: v.Key, DataType: v.DataType, Bytes: v.Bytes}, err
}

func (c gosmcConnection) Write(key string, value []byte) error {
	return c.conn.Write(key, value)
}

// New returns a new AppleSMC talking to the real controller.
func New() *AppleSMC {
	return &AppleSMC{
		conn: gosmcConnection{conn: gosmc.New()},
	}
}
