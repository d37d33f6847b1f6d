package smc

import "errors"

// ErrNoData is returned when a key holds no value.
var ErrNoData = errors.New("key has no data, check if it is valid")

// Value is a raw SMC key reading.
type Value struct {
	Key      string
	DataType string
	Bytes    []byte
}

// Connection is a session with the system management controller.
type Connection interface {
	Open() error
	Close() error
	Read(key string) (Value, error)
	Write(key string, value []byte) error
}
