package smc

import "sync"

// mockConnection keeps key values in memory.
type mockConnection struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mockConnection) Open() error  { return nil }
func (c *mockConnection) Close() error { return nil }

func (c *mockConnection) Read(key string) (Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if !ok {
		return Value{}, ErrNoData
	}
	return Value{Key: key, DataType: "hex_", Bytes: v}, nil
}

func (c *mockConnection) Write(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
	return nil
}
