package logship_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bft-labs/logship/pkg/logship"
)

// =============================================================================
// Test Utilities
// =============================================================================

// testLogger implements logship.Logger for capturing log output in tests.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func newTestLogger() *testLogger {
	return &testLogger{messages: make([]string, 0)}
}

func (l *testLogger) Debug(msg string, fields ...logship.LogField) {
	l.log("DEBUG", msg)
}

func (l *testLogger) Info(msg string, fields ...logship.LogField) {
	l.log("INFO", msg)
}

func (l *testLogger) Warn(msg string, fields ...logship.LogField) {
	l.log("WARN", msg)
}

func (l *testLogger) Error(msg string, fields ...logship.LogField) {
	l.log("ERROR", msg)
}

func (l *testLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("[%s] %s", level, msg))
}

func (l *testLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.messages))
	copy(cp, l.messages)
	return cp
}

func (l *testLogger) Contains(want string) bool {
	for _, msg := range l.Messages() {
		if msg == want {
			return true
		}
	}
	return false
}

// fakeSource feeds scripted record slices to the delivery loop and then
// idles until the context is canceled. It implements logship.RecordSource.
type fakeSource struct {
	mu      sync.Mutex
	polls   [][]logship.Record
	commits [][]logship.Record
	closed  bool
}

func (s *fakeSource) Open(ctx context.Context) error { return nil }

func (s *fakeSource) Poll(ctx context.Context) ([]logship.Record, error) {
	s.mu.Lock()
	if len(s.polls) > 0 {
		recs := s.polls[0]
		s.polls = s.polls[1:]
		s.mu.Unlock()
		return recs, nil
	}
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (s *fakeSource) Commit(ctx context.Context, records []logship.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits = append(s.commits, records)
	return nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSource) Commits() [][]logship.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([][]logship.Record, len(s.commits))
	copy(cp, s.commits)
	return cp
}

// trackingPlugin tracks initialization and shutdown calls for testing.
type trackingPlugin struct {
	name          string
	initOrder     *[]string
	shutdownOrder *[]string
	initError     error
	shutdownError error
	mu            sync.Mutex
	initialized   bool
	shutdown      bool
}

func newTrackingPlugin(name string, initOrder, shutdownOrder *[]string) *trackingPlugin {
	return &trackingPlugin{
		name:          name,
		initOrder:     initOrder,
		shutdownOrder: shutdownOrder,
	}
}

func (p *trackingPlugin) Name() string { return p.name }

func (p *trackingPlugin) Initialize(ctx context.Context, cfg logship.PluginConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initError != nil {
		return p.initError
	}

	*p.initOrder = append(*p.initOrder, p.name)
	p.initialized = true
	return nil
}

func (p *trackingPlugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	*p.shutdownOrder = append(*p.shutdownOrder, p.name)
	p.shutdown = true

	return p.shutdownError
}

func (p *trackingPlugin) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

func (p *trackingPlugin) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

// slowPlugin simulates a slow plugin that respects context cancellation.
type slowPlugin struct {
	logship.BasePlugin
	initDuration time.Duration
	initStarted  chan struct{}
}

func (p *slowPlugin) Initialize(ctx context.Context, cfg logship.PluginConfig) error {
	if p.initStarted != nil {
		close(p.initStarted)
	}
	select {
	case <-time.After(p.initDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// eventTracker tracks events emitted by a Logship instance.
type eventTracker struct {
	logship.BaseEventHandler
	mu           sync.Mutex
	stateChanges []logship.StateChangeEvent
	flushSuccess []logship.FlushSuccessEvent
	flushErrors  []logship.FlushErrorEvent
}

func newEventTracker() *eventTracker {
	return &eventTracker{}
}

func (e *eventTracker) OnStateChange(event logship.StateChangeEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateChanges = append(e.stateChanges, event)
}

func (e *eventTracker) OnFlushSuccess(event logship.FlushSuccessEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushSuccess = append(e.flushSuccess, event)
}

func (e *eventTracker) OnFlushError(event logship.FlushErrorEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushErrors = append(e.flushErrors, event)
}

func (e *eventTracker) StateChanges() []logship.StateChangeEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]logship.StateChangeEvent, len(e.stateChanges))
	copy(cp, e.stateChanges)
	return cp
}

func (e *eventTracker) FlushSuccesses() []logship.FlushSuccessEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]logship.FlushSuccessEvent, len(e.flushSuccess))
	copy(cp, e.flushSuccess)
	return cp
}

func (e *eventTracker) FlushErrors() []logship.FlushErrorEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make([]logship.FlushErrorEvent, len(e.flushErrors))
	copy(cp, e.flushErrors)
	return cp
}

// createTestConfig creates a minimal valid config for testing. The
// intake endpoint points at a dead port; tests that need deliveries to
// succeed override Host and Port with an httptest server.
func createTestConfig(t *testing.T) logship.Config {
	t.Helper()
	return logship.Config{
		Brokers:  []string{"localhost:9092"},
		Topics:   []string{"logs"},
		GroupID:  "logship-test",
		Host:     "localhost",
		Port:     9999,
		APIKey:   "test-key",
		StateDir: t.TempDir(),
	}
}

// newTestAgent builds an instance backed by a fake source so tests
// never touch a real broker.
func newTestAgent(t *testing.T, cfg logship.Config, opts ...logship.Option) (*logship.Logship, *fakeSource) {
	t.Helper()
	source := &fakeSource{}
	opts = append(opts, logship.WithRecordSource(source))
	w, err := logship.New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return w, source
}

// =============================================================================
// Plugin Lifecycle Tests
// =============================================================================

func TestPlugin_InitializationOrder(t *testing.T) {
	cfg := createTestConfig(t)
	logger := newTestLogger()

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	w, _ := newTestAgent(t, cfg,
		logship.WithLogger(logger),
		logship.WithPlugin(plugin1),
		logship.WithPlugin(plugin2),
		logship.WithPlugin(plugin3),
	)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if len(initOrder) != 3 {
		t.Errorf("Expected 3 plugins initialized, got %d", len(initOrder))
	}
	if initOrder[0] != "plugin1" || initOrder[1] != "plugin2" || initOrder[2] != "plugin3" {
		t.Errorf("Unexpected init order: %v", initOrder)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}

	// Shutdown happens in reverse order
	if len(shutdownOrder) != 3 {
		t.Errorf("Expected 3 plugins shutdown, got %d", len(shutdownOrder))
	}
	if shutdownOrder[0] != "plugin3" || shutdownOrder[1] != "plugin2" || shutdownOrder[2] != "plugin1" {
		t.Errorf("Unexpected shutdown order: %v (expected reverse of init)", shutdownOrder)
	}
}

func TestPlugin_InitializationFailure_PreventsStart(t *testing.T) {
	cfg := createTestConfig(t)

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin2.initError = errors.New("intentional init failure")
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	w, _ := newTestAgent(t, cfg,
		logship.WithPlugin(plugin1),
		logship.WithPlugin(plugin2),
		logship.WithPlugin(plugin3),
	)

	err := w.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should have failed due to plugin init error")
	}

	if len(initOrder) != 1 || initOrder[0] != "plugin1" {
		t.Errorf("Expected only plugin1 to init before failure, got: %v", initOrder)
	}
	if plugin3.IsInitialized() {
		t.Error("plugin3 should not have been initialized after plugin2 failed")
	}
	if w.Status() != logship.StateCrashed {
		t.Errorf("Status = %v, want Crashed", w.Status())
	}
}

func TestPlugin_ShutdownFailure_ContinuesOtherPlugins(t *testing.T) {
	cfg := createTestConfig(t)

	var initOrder []string
	var shutdownOrder []string

	plugin1 := newTrackingPlugin("plugin1", &initOrder, &shutdownOrder)
	plugin2 := newTrackingPlugin("plugin2", &initOrder, &shutdownOrder)
	plugin2.shutdownError = errors.New("intentional shutdown failure")
	plugin3 := newTrackingPlugin("plugin3", &initOrder, &shutdownOrder)

	w, _ := newTestAgent(t, cfg,
		logship.WithPlugin(plugin1),
		logship.WithPlugin(plugin2),
		logship.WithPlugin(plugin3),
	)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	_ = w.Stop()

	if len(shutdownOrder) != 3 {
		t.Errorf("Expected all 3 plugins to attempt shutdown, got: %v", shutdownOrder)
	}
	if !plugin1.IsShutdown() {
		t.Error("plugin1 should have been shutdown")
	}
	if !plugin3.IsShutdown() {
		t.Error("plugin3 should have been shutdown")
	}
}

// =============================================================================
// Edge Case Tests
// =============================================================================

func TestEmptyPluginList(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
	if w.Status() != logship.StateStopped {
		t.Errorf("Status = %v, want Stopped", w.Status())
	}
}

func TestStartAlreadyRunning(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("First Start() failed: %v", err)
	}

	if err := w.Start(ctx); !errors.Is(err, logship.ErrAlreadyRunning) {
		t.Errorf("Second Start() = %v, want ErrAlreadyRunning", err)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestStopAlreadyStopped(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	if err := w.Stop(); !errors.Is(err, logship.ErrNotRunning) {
		t.Errorf("Stop() without Start() = %v, want ErrNotRunning", err)
	}
}

func TestRapidStartStop(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	for i := 0; i < 5; i++ {
		if err := w.Start(context.Background()); err != nil {
			t.Fatalf("Start() iteration %d failed: %v", i, err)
		}

		time.Sleep(20 * time.Millisecond)

		if err := w.Stop(); err != nil {
			t.Errorf("Stop() iteration %d failed: %v", i, err)
		}
	}

	if w.Status() != logship.StateStopped {
		t.Errorf("Final status = %v, want Stopped", w.Status())
	}
}

func TestContextCancellationDuringInit(t *testing.T) {
	cfg := createTestConfig(t)

	initStarted := make(chan struct{})
	slow := &slowPlugin{
		BasePlugin:   logship.NewBasePlugin("slow-plugin"),
		initDuration: 5 * time.Second,
		initStarted:  initStarted,
	}

	w, _ := newTestAgent(t, cfg, logship.WithPlugin(slow))

	ctx, cancel := context.WithCancel(context.Background())

	startErr := make(chan error, 1)
	go func() {
		startErr <- w.Start(ctx)
	}()

	<-initStarted
	cancel()

	select {
	case err := <-startErr:
		if err == nil {
			t.Error("Start() should have failed due to context cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

// =============================================================================
// Event Handler Tests
// =============================================================================

func TestEventHandlerReceivesStateChanges(t *testing.T) {
	cfg := createTestConfig(t)

	tracker := newEventTracker()

	w, _ := newTestAgent(t, cfg, logship.WithEventHandler(tracker))

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}

	changes := tracker.StateChanges()
	if len(changes) < 2 {
		t.Fatalf("Expected at least 2 state changes, got %d", len(changes))
	}

	if changes[0].Previous != logship.StateStopped || changes[0].Current != logship.StateStarting {
		t.Errorf("First transition = %v -> %v, want Stopped -> Starting",
			changes[0].Previous, changes[0].Current)
	}

	foundRunning := false
	for _, change := range changes {
		if change.Current == logship.StateRunning {
			foundRunning = true
			break
		}
	}
	if !foundRunning {
		t.Error("Should have transitioned to Running state")
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestConcurrentStatusCalls(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Status()
		}()
	}
	wg.Wait()

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestConcurrentStartAttempts(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	ctx := context.Background()

	var successCount int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Start(ctx); err == nil {
				atomic.AddInt32(&successCount, 1)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&successCount) != 1 {
		t.Errorf("Expected exactly 1 successful Start(), got %d", successCount)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestStartStopRace(t *testing.T) {
	cfg := createTestConfig(t)

	w, _ := newTestAgent(t, cfg)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Stop()
	}()

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Status()
		}()
	}
	wg.Wait()

	status := w.Status()
	if status != logship.StateStopped && status != logship.StateCrashed {
		t.Errorf("Final status = %v, want Stopped or Crashed", status)
	}
}

// =============================================================================
// BasePlugin Tests
// =============================================================================

func TestBasePlugin_DefaultBehavior(t *testing.T) {
	bp := logship.NewBasePlugin("test-base")

	if bp.Name() != "test-base" {
		t.Errorf("Name() = %v, want test-base", bp.Name())
	}

	ctx := context.Background()
	cfg := logship.PluginConfig{}

	if err := bp.Initialize(ctx, cfg); err != nil {
		t.Errorf("Initialize() = %v, want nil", err)
	}
	if err := bp.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}

func TestBaseEventHandler_DefaultBehavior(t *testing.T) {
	beh := logship.BaseEventHandler{}

	// All methods are no-ops and must not panic
	beh.OnStateChange(logship.StateChangeEvent{})
	beh.OnFlushSuccess(logship.FlushSuccessEvent{})
	beh.OnFlushError(logship.FlushErrorEvent{})
}

// =============================================================================
// State Tests
// =============================================================================

func TestState_StringRepresentation(t *testing.T) {
	tests := []struct {
		state    logship.State
		expected string
	}{
		{logship.StateStopped, "Stopped"},
		{logship.StateStarting, "Starting"},
		{logship.StateRunning, "Running"},
		{logship.StateStopping, "Stopping"},
		{logship.StateCrashed, "Crashed"},
		{logship.State(99), "Unknown"},
	}

	for _, tc := range tests {
		if got := tc.state.String(); got != tc.expected {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.expected)
		}
	}
}

func TestState_CanStart(t *testing.T) {
	if !logship.StateStopped.CanStart() {
		t.Error("StateStopped.CanStart() should be true")
	}
	if !logship.StateCrashed.CanStart() {
		t.Error("StateCrashed.CanStart() should be true")
	}
	if logship.StateRunning.CanStart() {
		t.Error("StateRunning.CanStart() should be false")
	}
	if logship.StateStarting.CanStart() {
		t.Error("StateStarting.CanStart() should be false")
	}
	if logship.StateStopping.CanStart() {
		t.Error("StateStopping.CanStart() should be false")
	}
}

func TestState_CanStop(t *testing.T) {
	if !logship.StateRunning.CanStop() {
		t.Error("StateRunning.CanStop() should be true")
	}
	if !logship.StateStarting.CanStop() {
		t.Error("StateStarting.CanStop() should be true")
	}
	if logship.StateStopped.CanStop() {
		t.Error("StateStopped.CanStop() should be false")
	}
	if logship.StateCrashed.CanStop() {
		t.Error("StateCrashed.CanStop() should be false")
	}
	if logship.StateStopping.CanStop() {
		t.Error("StateStopping.CanStop() should be false")
	}
}

func TestState_IsRunning(t *testing.T) {
	if !logship.StateRunning.IsRunning() {
		t.Error("StateRunning.IsRunning() should be true")
	}
	if logship.StateStopped.IsRunning() {
		t.Error("StateStopped.IsRunning() should be false")
	}
	if logship.StateStarting.IsRunning() {
		t.Error("StateStarting.IsRunning() should be false")
	}
}
