package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/remind-agent/pkg/presenter"
)

// MockToaster is a thread-safe mock implementation of presenter.Toaster for testing
type MockToaster struct {
	mu       sync.Mutex
	toasts   []presenter.Toast
	handlers []func()
	attempts int
	showErr  error
	closed   bool
}

// NewMockToaster creates a new mock toaster
func NewMockToaster() *MockToaster {
	return &MockToaster{}
}

// Show implements the Toaster interface
func (m *MockToaster) Show(toast presenter.Toast, onClick func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Always track the attempt
	m.attempts++

	if m.showErr != nil {
		return m.showErr
	}

	m.toasts = append(m.toasts, toast)
	m.handlers = append(m.handlers, onClick)
	return nil
}

// Close implements the Toaster interface
func (m *MockToaster) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetToasts returns a copy of successfully shown toasts
func (m *MockToaster) GetToasts() []presenter.Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]presenter.Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasClickHandler reports whether the i-th shown toast registered a click handler
func (m *MockToaster) HasClickHandler(i int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return i < len(m.handlers) && m.handlers[i] != nil
}

// Click simulates the user clicking the i-th shown toast. It returns false
// when that toast has no click handler.
func (m *MockToaster) Click(i int) bool {
	m.mu.Lock()
	var handler func()
	if i < len(m.handlers) {
		handler = m.handlers[i]
	}
	m.mu.Unlock()

	if handler == nil {
		return false
	}
	handler()
	return true
}

// GetAttempts returns how many times Show was called, including failures
func (m *MockToaster) GetAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// SetError sets the error to return on Show calls
func (m *MockToaster) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showErr = err
}

// IsClosed reports whether Close was called
func (m *MockToaster) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockDialog is a mock implementation of presenter.Dialog for testing.
// Opened dialogs are dismissed immediately unless KeepVisible is set.
type MockDialog struct {
	mu          sync.Mutex
	specs       []presenter.DialogSpec
	handles     []*MockDialogHandle
	openErr     error
	waitErr     error
	keepVisible bool
}

// NewMockDialog creates a new mock dialog
func NewMockDialog() *MockDialog {
	return &MockDialog{}
}

// Open implements the Dialog interface
func (m *MockDialog) Open(spec presenter.DialogSpec) (presenter.DialogHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openErr != nil {
		return nil, m.openErr
	}

	h := &MockDialogHandle{visible: m.keepVisible, waitErr: m.waitErr}
	m.specs = append(m.specs, spec)
	m.handles = append(m.handles, h)
	return h, nil
}

// GetSpecs returns a copy of the specs of every opened dialog
func (m *MockDialog) GetSpecs() []presenter.DialogSpec {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]presenter.DialogSpec, len(m.specs))
	copy(result, m.specs)
	return result
}

// GetHandles returns the handles of every opened dialog
func (m *MockDialog) GetHandles() []*MockDialogHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*MockDialogHandle, len(m.handles))
	copy(result, m.handles)
	return result
}

// SetError sets the error to return on Open calls
func (m *MockDialog) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetWaitError makes subsequently opened dialogs fail in Wait, as when the
// dialog helper cannot run
func (m *MockDialog) SetWaitError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitErr = err
}

// KeepVisible makes subsequently opened dialogs stay on screen after Wait returns
func (m *MockDialog) KeepVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keepVisible = visible
}

// MockDialogHandle is a mock implementation of presenter.DialogHandle
type MockDialogHandle struct {
	mu         sync.Mutex
	visible    bool
	waitErr    error
	waitCount  int
	closeCount int
}

// Wait implements the DialogHandle interface
func (h *MockDialogHandle) Wait(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.waitCount++
	if h.waitErr != nil {
		return h.waitErr
	}
	return ctx.Err()
}

// Visible implements the DialogHandle interface
func (h *MockDialogHandle) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// Close implements the DialogHandle interface
func (h *MockDialogHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
	h.closeCount++
	return nil
}

// SetVisible sets the visibility state
func (h *MockDialogHandle) SetVisible(visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = visible
}

// GetCloseCount returns how many times Close was called
func (h *MockDialogHandle) GetCloseCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCount
}

// MockURLOpener is a mock implementation of interfaces.URLOpener for testing
type MockURLOpener struct {
	mu      sync.Mutex
	opened  []string
	openErr error
}

// NewMockURLOpener creates a new mock URL opener
func NewMockURLOpener() *MockURLOpener {
	return &MockURLOpener{}
}

// Open implements the URLOpener interface
func (m *MockURLOpener) Open(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, url)
	return m.openErr
}

// GetOpened returns a copy of every URL passed to Open
func (m *MockURLOpener) GetOpened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]string, len(m.opened))
	copy(result, m.opened)
	return result
}

// SetError sets the error to return on Open calls
func (m *MockURLOpener) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// MockIdleSource is a mock implementation of interfaces.IdleTimeSource for testing
type MockIdleSource struct {
	mu        sync.Mutex
	idle      time.Duration
	err       error
	callCount int
}

// NewMockIdleSource creates a new mock idle source reporting idle
func NewMockIdleSource(idle time.Duration) *MockIdleSource {
	return &MockIdleSource{idle: idle}
}

// IdleTime implements the IdleTimeSource interface
func (m *MockIdleSource) IdleTime() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	return m.idle, m.err
}

// SetIdle sets the reported idle duration
func (m *MockIdleSource) SetIdle(idle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = idle
}

// SetError sets the error to return on IdleTime calls
func (m *MockIdleSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetCallCount returns how many times IdleTime was called
func (m *MockIdleSource) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MockRateLimiter is a mock implementation of interfaces.RateLimiter for testing
type MockRateLimiter struct {
	mu          sync.Mutex
	allowResult bool
	allowCount  int
	resetCount  int
}

// NewMockRateLimiter creates a new mock rate limiter
func NewMockRateLimiter(allowResult bool) *MockRateLimiter {
	return &MockRateLimiter{
		allowResult: allowResult,
	}
}

// Allow implements the RateLimiter interface
func (m *MockRateLimiter) Allow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowCount++
	return m.allowResult
}

// Reset implements the RateLimiter interface
func (m *MockRateLimiter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}

// SetAllowResult sets the result that Allow() will return
func (m *MockRateLimiter) SetAllowResult(allow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowResult = allow
}

// GetAllowCount returns how many times Allow was called
func (m *MockRateLimiter) GetAllowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allowCount
}

// GetResetCount returns how many times Reset was called
func (m *MockRateLimiter) GetResetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetCount
}
