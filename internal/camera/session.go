// Package camera manages the lifecycle and frame pipeline of one GigE
// camera: connect, parameter snapshot, streaming channel setup, asynchronous
// frame ingestion, and a bounded queue the consumer drains one frame at a
// time.
package camera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gigevision/camnode/internal/events"
	"github.com/gigevision/camnode/internal/logging"
	"github.com/gigevision/camnode/internal/metrics"
	"github.com/gigevision/camnode/pkg/svgige"
)

const (
	// HeartbeatTimeout is how long the driver waits for a camera
	// heartbeat before declaring the device lost, during connect and
	// afterwards.
	HeartbeatTimeout = 3000 * time.Millisecond

	// PacketResendTimeout is how long the driver waits before starting
	// packet resend bookkeeping for an incomplete frame. Resend itself
	// is a driver concern; the session only configures it.
	PacketResendTimeout = 1000 * time.Millisecond

	// PixelDepth is the transfer depth configured for this device class.
	PixelDepth = 12
)

// Defaults applied by DefaultOptions.
const (
	DefaultBufferCount = 10
	DefaultPacketSize  = 9000
	DefaultQueueLength = 50
)

// Options configures a session. A QueueLength of 0 leaves the frame queue
// unbounded.
type Options struct {
	// BufferCount is the number of driver-side frame buffer slots for
	// the streaming channel.
	BufferCount int
	// PacketSize is the MTU used for streaming packets.
	PacketSize int
	// QueueLength bounds the consumer-facing frame queue. When full, the
	// oldest frame is dropped to admit a new one. 0 = unbounded.
	QueueLength int
}

// DefaultOptions returns the standard session configuration.
func DefaultOptions() Options {
	return Options{
		BufferCount: DefaultBufferCount,
		PacketSize:  DefaultPacketSize,
		QueueLength: DefaultQueueLength,
	}
}

// Session is one open connection to a camera. Setup and teardown run on the
// owning goroutine; the driver invokes the ingest callback concurrently on
// its own thread, and the frame queue is the only state shared between the
// two.
type Session struct {
	device string
	source string
	opts   Options

	logger *slog.Logger
	bus    *events.Bus

	mu     sync.Mutex
	stage  readiness
	cam    svgige.Camera
	stream svgige.Stream

	// Static device parameters, read once during setup.
	identity   string
	tickFreq   uint64
	width      int
	height     int
	depth      int
	bufferSize int
	streamIP   string
	streamPort int

	queue *frameQueue
	lost  atomic.Bool
}

// Open connects to the camera at device from the local interface source and
// brings the session to the ready stage: control connection, identity and
// parameter snapshot, streaming channel opened and enabled. On any failure
// the resources of every stage reached so far are released and the error is
// returned; there is no partially usable session. A nil opts selects
// DefaultOptions.
func Open(drv svgige.Driver, device, source string, opts *Options, bus *events.Bus) (*Session, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	s := &Session{
		device: device,
		source: source,
		opts:   o,
		logger: logging.GetLogger("camera"),
		bus:    bus,
		stage:  stageNotReady,
		queue:  newFrameQueue(o.QueueLength),
	}

	if err := s.setup(drv); err != nil {
		return nil, err
	}

	metrics.SetCameraUp(device)
	s.publish(events.CameraConnectedEvent{
		DeviceAddr: device,
		Identity:   s.identity,
		Timestamp:  eventTime(),
	})
	s.logger.Info("Camera session ready",
		"camera", device,
		"identity", s.identity,
		"geometry", fmt.Sprintf("%dx%d", s.width, s.height),
		"depth", s.depth,
		"stream", fmt.Sprintf("%s:%d", s.streamIP, s.streamPort),
	)
	return s, nil
}

// setup advances the readiness stages in order. The deferred teardown runs
// only on failure and releases exactly the stages reached.
func (s *Session) setup(drv svgige.Driver) (err error) {
	defer func() {
		if err != nil {
			s.logger.Error("Camera setup failed",
				"camera", s.device, "stage", s.stage.String(), "error", err)
			s.teardown(s.stage)
			s.stage = stageNotReady
			s.queue.close()
		}
	}()

	cam, err := drv.OpenCamera(svgige.ConnectConfig{
		DeviceAddr:       s.device,
		SourceAddr:       s.source,
		HeartbeatTimeout: HeartbeatTimeout,
		Multicast:        svgige.MulticastNone,
	})
	if err != nil {
		return connectionError(s.device, err)
	}
	s.cam = cam
	s.stage = stageConnected

	if err = s.readIdentity(); err != nil {
		return err
	}
	s.stage = stageIdentity

	if err = s.readParameters(); err != nil {
		return err
	}

	return s.openStream()
}

// readIdentity captures the manufacturer+model string.
func (s *Session) readIdentity() error {
	manufacturer, err := s.cam.ManufacturerName()
	if err != nil {
		return protocolError("failed to read manufacturer name", err)
	}
	model, err := s.cam.ModelName()
	if err != nil {
		return protocolError("failed to read model name", err)
	}

	identity := strings.TrimSpace(manufacturer + " " + model)
	if identity == "" {
		return NewError(ErrCodeAllocation, "camera reported an empty identity", nil)
	}
	s.identity = identity
	return nil
}

// readParameters snapshots the static device parameters and configures the
// 12-bit transfer depth.
func (s *Session) readParameters() error {
	tick, err := s.cam.TickFrequency()
	if err != nil {
		return protocolError("failed to read timestamp tick frequency", err)
	}
	s.tickFreq = tick

	width, err := s.cam.ImagerWidth()
	if err != nil {
		return protocolError("failed to read imager width", err)
	}
	s.width = width

	height, err := s.cam.ImagerHeight()
	if err != nil {
		return protocolError("failed to read imager height", err)
	}
	s.height = height

	if err := s.cam.SetPixelDepth(PixelDepth); err != nil {
		return protocolError("failed to set pixel depth", err)
	}
	s.depth = PixelDepth

	size, err := s.cam.BufferSize()
	if err != nil {
		return protocolError("failed to read frame buffer size", err)
	}
	s.bufferSize = size
	return nil
}

// NextFrame removes and returns the oldest queued frame, blocking until one
// arrives or ctx ends. After device loss any already queued frames are still
// drained; once the queue is empty NextFrame returns ErrDeviceLost (or
// ErrSessionClosed after Close).
func (s *Session) NextFrame(ctx context.Context) (*Frame, error) {
	f, err := s.queue.popWait(ctx)
	if err != nil {
		if errors.Is(err, errQueueClosed) {
			return nil, s.closedErr()
		}
		return nil, err
	}
	metrics.SetQueueDepth(s.device, s.queue.length())
	return f, nil
}

// TryNextFrame is the non-blocking variant of NextFrame. It returns
// ErrQueueEmpty when no frame is queued on a healthy session.
func (s *Session) TryNextFrame() (*Frame, error) {
	f, err := s.queue.tryPop()
	if err != nil {
		if errors.Is(err, errQueueClosed) {
			return nil, s.closedErr()
		}
		return nil, err
	}
	metrics.SetQueueDepth(s.device, s.queue.length())
	return f, nil
}

func (s *Session) closedErr() error {
	if s.lost.Load() {
		return ErrDeviceLost
	}
	return ErrSessionClosed
}

// Close tears down the session: stream closed first (silencing the driver
// callback), then identity released, then the control connection closed.
// Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.stage == stageNotReady {
		s.mu.Unlock()
		return nil
	}
	reached := s.stage
	s.stage = stageNotReady
	s.teardown(reached)
	s.mu.Unlock()

	s.queue.close()
	metrics.DeleteCamera(s.device)
	s.publish(events.CameraDisconnectedEvent{
		DeviceAddr: s.device,
		Timestamp:  eventTime(),
	})
	s.logger.Info("Camera session closed", "camera", s.device)
	return nil
}

// Device returns the camera's network address.
func (s *Session) Device() string { return s.device }

// Identity returns the manufacturer and model string.
func (s *Session) Identity() string { return s.identity }

// TickFrequency returns the device timestamp clock rate in ticks per second.
func (s *Session) TickFrequency() uint64 { return s.tickFreq }

// Width returns the imager width in pixels.
func (s *Session) Width() int { return s.width }

// Height returns the imager height in pixels.
func (s *Session) Height() int { return s.height }

// Depth returns the configured pixel depth in bits.
func (s *Session) Depth() int { return s.depth }

// BufferSize returns the size of one frame buffer in bytes.
func (s *Session) BufferSize() int { return s.bufferSize }

// StreamAddr returns the local IP and port bound for the data channel.
func (s *Session) StreamAddr() (string, int) { return s.streamIP, s.streamPort }

// Lost reports whether the device heartbeat was lost after setup.
func (s *Session) Lost() bool { return s.lost.Load() }

// Stats reports queue counters for inspection.
type Stats struct {
	Received   uint64 `json:"received"`
	Dropped    uint64 `json:"dropped"`
	QueueDepth int    `json:"queue_depth"`
}

// Stats returns the session's frame counters.
func (s *Session) Stats() Stats {
	pushed, evicted := s.queue.stats()
	return Stats{
		Received:   pushed,
		Dropped:    evicted,
		QueueDepth: s.queue.length(),
	}
}

func (s *Session) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func eventTime() string {
	return time.Now().UTC().Format(time.RFC3339)
}
