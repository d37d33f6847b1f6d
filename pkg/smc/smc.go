package smc

import (
	"github.com/sirupsen/logrus"
)

// AppleSMC wraps a Connection with key tracing.
type AppleSMC struct {
	conn Connection
}

// NewMock returns an AppleSMC backed by in-memory keys.
func NewMock(keys map[string][]byte) *AppleSMC {
	conn := &mockConnection{data: make(map[string][]byte, len(keys))}
	for key, value := range keys {
		conn.data[key] = value
	}
	return &AppleSMC{conn: conn}
}

func (c *AppleSMC) Open() error  { return c.conn.Open() }
func (c *AppleSMC) Close() error { return c.conn.Close() }

// Read returns the raw value of key.
func (c *AppleSMC) Read(key string) (Value, error) {
	v, err := c.conn.Read(key)
	trace("read", key, v.Bytes, err)
	return v, err
}

// Write stores value under key.
func (c *AppleSMC) Write(key string, value []byte) error {
	err := c.conn.Write(key, value)
	trace("write", key, value, err)
	return err
}

func trace(op, key string, val []byte, err error) {
	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	entry := logrus.WithFields(logrus.Fields{"op": op, "key": key})
	if err != nil {
		entry.Tracef("SMC %s failed: %v", op, err)
		return
	}
	entry.WithField("val", val).Tracef("SMC %s", op)
}
