package render

import (
	"context"
)

// MockRenderer is a Renderer for tests. It records the last input.
type MockRenderer struct {
	MockOutput []byte
	MockError  error

	LastDot    []byte
	LastFormat string
}

func (m *MockRenderer) Render(ctx context.Context, dot []byte, format string) ([]byte, error) {
	m.LastDot = dot
	m.LastFormat = format
	return m.MockOutput, m.MockError
}
