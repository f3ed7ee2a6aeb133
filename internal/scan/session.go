package scan

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bmgraphics/fleetops/internal/vin"
)

// State of a scanning session.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateScanning
	StateFound
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateScanning:
		return "scanning"
	case StateFound:
		return "found"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultInterval is the frame sampling cadence (~6-7 fps). A tunable, not a
// correctness requirement.
const DefaultInterval = 150 * time.Millisecond

// CaptureReason distinguishes why the camera could not start, so the UI can
// word the fallback-to-manual-entry message.
type CaptureReason int

const (
	ReasonOther CaptureReason = iota
	ReasonPermissionDenied
	ReasonNoCamera
)

// CaptureError wraps a FrameSource failure with its classified reason.
type CaptureError struct {
	Reason CaptureReason
	Err    error
}

func (e *CaptureError) Error() string {
	switch e.Reason {
	case ReasonPermissionDenied:
		return "camera permission denied: " + e.Err.Error()
	case ReasonNoCamera:
		return "no camera found: " + e.Err.Error()
	default:
		return "camera error: " + e.Err.Error()
	}
}

func (e *CaptureError) Unwrap() error { return e.Err }

func classifyCapture(err error) *CaptureError {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return &CaptureError{Reason: ReasonPermissionDenied, Err: err}
	case errors.Is(err, ErrNoCamera):
		return &CaptureError{Reason: ReasonNoCamera, Err: err}
	default:
		return &CaptureError{Reason: ReasonOther, Err: err}
	}
}

// Session drives one scanning session: Idle → Starting → Scanning → Found,
// or Scanning → Error, back to Idle on Stop. Each session owns its frame
// source and symbol reader and accepts at most one VIN (the latch); create a
// fresh Session for the next vehicle.
type Session struct {
	source   FrameSource
	reader   *SymbolReader
	interval time.Duration
	onVIN    func(vin string)

	mu       sync.Mutex
	state    State
	found    bool // latch: first accepted VIN ends the session
	decoding bool // single-flight guard for decode attempts
	frames   int
	lastRead string
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewSession builds a session over the given frame source. interval <= 0
// selects DefaultInterval. onVIN is invoked exactly once, from the sampling
// goroutine, when a checksum-valid VIN is latched.
func NewSession(source FrameSource, interval time.Duration, onVIN func(string)) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Session{
		source:   source,
		reader:   NewSymbolReader(),
		interval: interval,
		onVIN:    onVIN,
		state:    StateIdle,
	}
}

// Start opens the frame source and begins sampling. Only valid from Idle.
// A capture failure transitions to Error and returns a *CaptureError; the
// caller offers manual entry in that case.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return errors.New("scan: session already started")
	}
	s.state = StateStarting
	s.mu.Unlock()

	if err := s.source.Open(ctx); err != nil {
		cerr := classifyCapture(err)
		s.mu.Lock()
		s.state = StateError
		s.mu.Unlock()
		return cerr
	}

	s.mu.Lock()
	if s.state != StateStarting { // Stop raced with Open
		s.mu.Unlock()
		_ = s.source.Close()
		return nil
	}
	s.state = StateScanning
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)
	return nil
}

func (s *Session) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.Stop()
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick samples one frame and attempts one decode. The decoding flag rejects
// re-entrancy; the latch makes post-Found ticks no-ops.
func (s *Session) tick(ctx context.Context) {
	s.mu.Lock()
	if s.found || s.decoding || s.state != StateScanning {
		s.mu.Unlock()
		return
	}
	s.decoding = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.decoding = false
		s.mu.Unlock()
	}()

	frame, err := s.source.Grab(ctx)
	if err != nil {
		return // transient: wait for the next frame
	}

	s.mu.Lock()
	s.frames++
	s.mu.Unlock()

	raw, err := s.reader.ReadFrame(frame)
	if err != nil {
		return // no symbol in this frame, keep scanning
	}

	candidate := vin.Normalize(raw)

	s.mu.Lock()
	s.lastRead = candidate
	s.mu.Unlock()

	if !vin.Valid(candidate) {
		return
	}

	// Latch and tear down before emitting, so no further frames are
	// processed even if the callback blocks.
	s.mu.Lock()
	if s.found {
		s.mu.Unlock()
		return
	}
	s.found = true
	s.state = StateFound
	close(s.done)
	s.mu.Unlock()

	_ = s.source.Close()

	if s.onVIN != nil {
		s.onVIN(candidate)
	}
}

// Stop cancels sampling and releases the frame source unconditionally.
// Idempotent; safe from any state and any goroutine. After Stop the session
// is Idle and will not process further frames.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.done != nil && s.state == StateScanning {
		close(s.done)
	}
	s.state = StateIdle
	s.mu.Unlock()

	_ = s.source.Close()
}

// Wait blocks until the sampling goroutine has exited. Mainly for tests and
// orderly CLI shutdown.
func (s *Session) Wait() {
	s.wg.Wait()
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frames returns how many frames have been decoded so far, for UI feedback.
func (s *Session) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// LastRead returns the most recent normalized (not necessarily valid)
// barcode text, trimmed for display.
func (s *Session) LastRead() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.lastRead)
}
