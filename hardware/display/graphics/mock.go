package graphics

import "sync"

// MockBlitter records every flushed frame for test inspection.
type MockBlitter struct {
	mu     sync.Mutex
	frames [][]byte

	// Fail, when set, is returned by the next Blit.
	Fail error
}

func NewMockBlitter() *MockBlitter { return &MockBlitter{} }

func (m *MockBlitter) Blit(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		err := m.Fail
		m.Fail = nil
		return err
	}
	m.frames = append(m.frames, append([]byte(nil), frame...))
	return nil
}

// Frames returns copies of all frames blitted so far, oldest first.
func (m *MockBlitter) Frames() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.frames...)
}

func (m *MockBlitter) Last() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}
