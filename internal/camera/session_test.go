package camera

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gigevision/camnode/pkg/svgige"
)

// mockDriver records every driver call in order and can be told to fail any
// single operation.
type mockDriver struct {
	mu   sync.Mutex
	ops  []string
	fail map[string]svgige.Status

	manufacturer string
	model        string

	callback   svgige.StreamCallback
	depth      int
	connectCfg svgige.ConnectConfig
}

func newMockDriver() *mockDriver {
	return &mockDriver{
		fail:         make(map[string]svgige.Status),
		manufacturer: "SVS-VISTEK",
		model:        "eco204MVGE",
	}
}

func (d *mockDriver) record(op string) error {
	d.mu.Lock()
	d.ops = append(d.ops, op)
	code, bad := d.fail[op]
	d.mu.Unlock()

	if bad {
		return svgige.NewStatusError(code)
	}
	return nil
}

func (d *mockDriver) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

func (d *mockDriver) count(op string) int {
	n := 0
	for _, o := range d.calls() {
		if o == op {
			n++
		}
	}
	return n
}

func (d *mockDriver) OpenCamera(cfg svgige.ConnectConfig) (svgige.Camera, error) {
	d.mu.Lock()
	d.connectCfg = cfg
	d.mu.Unlock()
	if err := d.record("openCamera"); err != nil {
		return nil, err
	}
	return &mockCamera{d: d}, nil
}

type mockCamera struct {
	d *mockDriver
}

func (c *mockCamera) ManufacturerName() (string, error) {
	if err := c.d.record("manufacturerName"); err != nil {
		return "", err
	}
	return c.d.manufacturer, nil
}

func (c *mockCamera) ModelName() (string, error) {
	if err := c.d.record("modelName"); err != nil {
		return "", err
	}
	return c.d.model, nil
}

func (c *mockCamera) TickFrequency() (uint64, error) {
	if err := c.d.record("tickFrequency"); err != nil {
		return 0, err
	}
	return 66666667, nil
}

func (c *mockCamera) ImagerWidth() (int, error) {
	if err := c.d.record("imagerWidth"); err != nil {
		return 0, err
	}
	return 320, nil
}

func (c *mockCamera) ImagerHeight() (int, error) {
	if err := c.d.record("imagerHeight"); err != nil {
		return 0, err
	}
	return 240, nil
}

func (c *mockCamera) SetPixelDepth(bits int) error {
	c.d.depth = bits
	return c.d.record("setPixelDepth")
}

func (c *mockCamera) BufferSize() (int, error) {
	if err := c.d.record("bufferSize"); err != nil {
		return 0, err
	}
	return 320 * 240 * 2, nil
}

func (c *mockCamera) AddStream(cfg svgige.StreamConfig, cb svgige.StreamCallback) (svgige.Stream, error) {
	if err := c.d.record("addStream"); err != nil {
		return nil, err
	}
	c.d.callback = cb
	return &mockStream{d: c.d}, nil
}

func (c *mockCamera) Close() error {
	return c.d.record("closeCamera")
}

type mockStream struct {
	d *mockDriver
}

func (s *mockStream) Enable(on bool) error {
	if on {
		return s.d.record("enable")
	}
	return s.d.record("disable")
}

func (s *mockStream) LocalAddr() (string, int) {
	return "10.0.0.2", 40100
}

func (s *mockStream) Close() error {
	return s.d.record("closeStream")
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var camErr *Error
	if !errors.As(err, &camErr) {
		t.Fatalf("error %v is not a *camera.Error", err)
	}
	return camErr.Code
}

func TestOpenBringsSessionToReady(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "10.0.0.2", nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sess.Close()

	if got := sess.Identity(); got != "SVS-VISTEK eco204MVGE" {
		t.Errorf("identity = %q", got)
	}
	if sess.Width() != 320 || sess.Height() != 240 {
		t.Errorf("geometry = %dx%d, want 320x240", sess.Width(), sess.Height())
	}
	if sess.Depth() != PixelDepth {
		t.Errorf("depth = %d, want %d", sess.Depth(), PixelDepth)
	}
	if drv.depth != PixelDepth {
		t.Errorf("driver depth = %d, want %d", drv.depth, PixelDepth)
	}
	if sess.BufferSize() != 320*240*2 {
		t.Errorf("buffer size = %d", sess.BufferSize())
	}
	if got := drv.connectCfg.HeartbeatTimeout; got != HeartbeatTimeout {
		t.Errorf("heartbeat timeout = %v, want %v", got, HeartbeatTimeout)
	}
	ip, port := sess.StreamAddr()
	if ip != "10.0.0.2" || port != 40100 {
		t.Errorf("stream addr = %s:%d", ip, port)
	}

	// Streaming must only be enabled after the channel is registered.
	ops := drv.calls()
	addIdx, enableIdx := -1, -1
	for i, op := range ops {
		switch op {
		case "addStream":
			addIdx = i
		case "enable":
			enableIdx = i
		}
	}
	if addIdx == -1 || enableIdx == -1 || enableIdx < addIdx {
		t.Errorf("bad op order: %v", ops)
	}
}

func TestOpenConnectFailure(t *testing.T) {
	drv := newMockDriver()
	drv.fail["openCamera"] = svgige.StatusConnectFailed

	_, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errCode(t, err); code != ErrCodeConnection {
		t.Errorf("code = %q, want %q", code, ErrCodeConnection)
	}

	// The underlying driver status is preserved in the chain.
	status, ok := StatusCode(err)
	if !ok || status != svgige.StatusConnectFailed {
		t.Errorf("status = %v (%v)", status, ok)
	}
	if drv.count("closeCamera") != 0 {
		t.Error("nothing was opened, nothing should be closed")
	}
}

func TestOpenIdentityFailureClosesConnection(t *testing.T) {
	drv := newMockDriver()
	drv.fail["manufacturerName"] = svgige.StatusGeneralError

	_, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errCode(t, err); code != ErrCodeProtocol {
		t.Errorf("code = %q, want %q", code, ErrCodeProtocol)
	}

	if n := drv.count("closeCamera"); n != 1 {
		t.Errorf("closeCamera called %d times, want 1", n)
	}
	if n := drv.count("closeStream"); n != 0 {
		t.Errorf("closeStream called %d times, want 0", n)
	}
}

func TestOpenEmptyIdentity(t *testing.T) {
	drv := newMockDriver()
	drv.manufacturer = "  "
	drv.model = ""

	_, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errCode(t, err); code != ErrCodeAllocation {
		t.Errorf("code = %q, want %q", code, ErrCodeAllocation)
	}
	if n := drv.count("closeCamera"); n != 1 {
		t.Errorf("closeCamera called %d times, want 1", n)
	}
}

func TestOpenEnableFailureClosesStreamThenConnection(t *testing.T) {
	drv := newMockDriver()
	drv.fail["enable"] = svgige.StatusStreamFailed

	_, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errCode(t, err); code != ErrCodeProtocol {
		t.Errorf("code = %q, want %q", code, ErrCodeProtocol)
	}

	// The opened-but-unenabled stream must not leak, and it must be
	// released before the control connection.
	ops := drv.calls()
	streamIdx, camIdx := -1, -1
	for i, op := range ops {
		switch op {
		case "closeStream":
			streamIdx = i
		case "closeCamera":
			camIdx = i
		}
	}
	if streamIdx == -1 {
		t.Fatalf("stream never closed: %v", ops)
	}
	if camIdx == -1 || camIdx < streamIdx {
		t.Errorf("bad teardown order: %v", ops)
	}
}

func TestFrameFlow(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	buf := []byte{1, 2, 3, 4}
	drv.callback(svgige.StreamEvent{
		Signal: svgige.SignalFrameCompleted,
		Frame:  &svgige.FrameBuffer{Data: buf, Timestamp: 1000, FrameID: 7},
	})

	// The driver reuses its buffer; the queued frame must be a copy.
	buf[0] = 99

	frame, err := sess.NextFrame(context.Background())
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	if frame.FrameID != 7 || frame.Timestamp != 1000 {
		t.Errorf("metadata = id %d ts %d", frame.FrameID, frame.Timestamp)
	}
	if frame.Data[0] != 1 {
		t.Error("frame shares memory with the driver buffer")
	}
	if frame.Width != 320 || frame.Height != 240 || frame.Depth != PixelDepth {
		t.Errorf("geometry = %dx%d/%d", frame.Width, frame.Height, frame.Depth)
	}

	if _, err := sess.TryNextFrame(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("empty TryNextFrame err = %v, want ErrQueueEmpty", err)
	}
}

func TestQueueBoundDropsOldest(t *testing.T) {
	drv := newMockDriver()
	opts := DefaultOptions()
	opts.QueueLength = 2
	sess, err := Open(drv, "192.168.1.50", "", &opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	for i := uint64(0); i < 5; i++ {
		drv.callback(svgige.StreamEvent{
			Signal: svgige.SignalFrameCompleted,
			Frame:  &svgige.FrameBuffer{Data: []byte{byte(i)}, FrameID: i},
		})
	}

	stats := sess.Stats()
	if stats.Received != 5 || stats.Dropped != 3 || stats.QueueDepth != 2 {
		t.Errorf("stats = %+v", stats)
	}

	for _, want := range []uint64{3, 4} {
		frame, err := sess.TryNextFrame()
		if err != nil {
			t.Fatal(err)
		}
		if frame.FrameID != want {
			t.Errorf("frame = %d, want %d", frame.FrameID, want)
		}
	}
}

func TestDeviceLost(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	drv.callback(svgige.StreamEvent{
		Signal: svgige.SignalFrameCompleted,
		Frame:  &svgige.FrameBuffer{Data: []byte{1}, FrameID: 1},
	})
	drv.callback(svgige.StreamEvent{Signal: svgige.SignalConnectionLost})

	if !sess.Lost() {
		t.Error("Lost() = false after connection lost")
	}

	// The frame queued before the loss still drains.
	if _, err := sess.NextFrame(context.Background()); err != nil {
		t.Fatalf("draining frame: %v", err)
	}

	if _, err := sess.NextFrame(context.Background()); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("err = %v, want ErrDeviceLost", err)
	}
	if _, err := sess.TryNextFrame(); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("TryNextFrame err = %v, want ErrDeviceLost", err)
	}

	// Frames arriving after the loss are discarded.
	drv.callback(svgige.StreamEvent{
		Signal: svgige.SignalFrameCompleted,
		Frame:  &svgige.FrameBuffer{Data: []byte{2}, FrameID: 2},
	})
	if _, err := sess.TryNextFrame(); !errors.Is(err, ErrDeviceLost) {
		t.Errorf("post-loss frame admitted: %v", err)
	}
}

func TestCloseIsIdempotentAndOrdered(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if n := drv.count("closeStream"); n != 1 {
		t.Errorf("closeStream called %d times, want 1", n)
	}
	if n := drv.count("closeCamera"); n != 1 {
		t.Errorf("closeCamera called %d times, want 1", n)
	}

	ops := drv.calls()
	streamIdx, camIdx := -1, -1
	for i, op := range ops {
		switch op {
		case "closeStream":
			streamIdx = i
		case "closeCamera":
			camIdx = i
		}
	}
	if camIdx < streamIdx {
		t.Errorf("camera closed before stream: %v", ops)
	}

	if _, err := sess.NextFrame(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err after close = %v, want ErrSessionClosed", err)
	}
}

// The parameter accessors are documented as stable for the life of the
// session object. Reading them while another goroutine runs Close must be
// race-free and keep returning the snapshot taken during setup.
func TestAccessorsStableDuringClose(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if got := sess.Identity(); got != "SVS-VISTEK eco204MVGE" {
				t.Errorf("identity = %q during close", got)
				return
			}
			if sess.Width() != 320 || sess.TickFrequency() == 0 {
				t.Error("parameters changed during close")
				return
			}
		}
	}()

	time.Sleep(5 * time.Millisecond)
	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	close(stop)
	<-done
}

func TestNextFrameContextCancel(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := sess.NextFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIngestSurvivesBadFrames(t *testing.T) {
	drv := newMockDriver()
	sess, err := Open(drv, "192.168.1.50", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	// Nil and empty buffers are recorded, not queued, and must not panic.
	drv.callback(svgige.StreamEvent{Signal: svgige.SignalFrameCompleted, Frame: nil})
	drv.callback(svgige.StreamEvent{
		Signal: svgige.SignalFrameCompleted,
		Frame:  &svgige.FrameBuffer{Data: nil},
	})
	drv.callback(svgige.StreamEvent{Signal: svgige.SignalFrameAbandoned})

	if _, err := sess.TryNextFrame(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("err = %v, want ErrQueueEmpty", err)
	}
}
