package factory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/sprig-core/internal/dependencies/mocks"
	"github.com/mcoot/sprig-core/internal/services/logincode"
	"github.com/mcoot/sprig-core/internal/storage/memory"
	"github.com/mcoot/sprig-core/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockMailer *MockMailer
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockMailer := &MockMailer{}

	app := newWithDependencies(store, mockClock, mockRandom, mockMailer, logincode.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockMailer: mockMailer,
	}
}

// SentCode is a login code delivered through MockMailer
type SentCode struct {
	To   string
	Code string
}

// MockMailer records login codes instead of sending them
type MockMailer struct {
	mu   sync.Mutex
	sent []SentCode
}

// SendLoginCode records the code
func (m *MockMailer) SendLoginCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentCode{To: to, Code: code})
	return nil
}

// Sent returns the codes delivered so far
func (m *MockMailer) Sent() []SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentCode(nil), m.sent...)
}

// LastCode returns the most recently delivered code, or "" if none
func (m *MockMailer) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Code
}
