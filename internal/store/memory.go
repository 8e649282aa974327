package store

import "context"

// Memory is an in-process medium for tests and dry runs.
type Memory struct {
	data []byte
	// WriteErr, when set, is returned by Write.
	WriteErr error
	Writes   int
}

// NewMemory returns an empty medium.
func NewMemory() *Memory {
	return &Memory{}
}

// Write stores a copy of data.
func (m *Memory) Write(_ context.Context, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.Writes++
	return nil
}

// Read returns a copy of the stored blob, or nil when absent.
func (m *Memory) Read(_ context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

// Erase drops the stored blob.
func (m *Memory) Erase(_ context.Context) error {
	m.data = nil
	return nil
}
