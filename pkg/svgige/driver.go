package svgige

import "time"

// MulticastMode selects the addressing mode for the streaming channel.
type MulticastMode int

// Multicast modes.
const (
	MulticastNone MulticastMode = iota
	MulticastEnabled
)

// Signal identifies the kind of event a stream callback delivers.
type Signal int

// Stream signals.
const (
	SignalFrameCompleted Signal = iota + 1 // a frame buffer finished transfer
	SignalFrameAbandoned                   // transfer gave up on a frame
	SignalConnectionLost                   // heartbeat missed, camera gone
)

// FrameBuffer is a completed frame as handed over by the driver. Data points
// into driver-owned memory and is only valid until the callback returns.
type FrameBuffer struct {
	Data      []byte
	Timestamp uint64 // device ticks, see Camera.TickFrequency
	FrameID   uint64 // driver-assigned sequence number
}

// StreamEvent is delivered to a StreamCallback. Frame is non-nil only for
// SignalFrameCompleted.
type StreamEvent struct {
	Signal Signal
	Frame  *FrameBuffer
}

// StreamCallback receives stream events on a driver-owned thread. It must
// return promptly; packet resend bookkeeping shares the delivery path.
type StreamCallback func(ev StreamEvent)

// ConnectConfig describes how to reach a camera.
type ConnectConfig struct {
	// DeviceAddr is the IP address of the camera.
	DeviceAddr string
	// SourceAddr is the IP address of the local interface used for the
	// connection and as the endpoint of the streaming channel.
	SourceAddr string
	// HeartbeatTimeout is how long the driver waits for a heartbeat before
	// declaring the camera lost, both during connect and afterwards.
	HeartbeatTimeout time.Duration
	Multicast        MulticastMode
}

// StreamConfig describes a streaming channel to open on a connected camera.
type StreamConfig struct {
	// BufferSize is the size of one frame buffer in bytes, as reported by
	// Camera.BufferSize.
	BufferSize int
	// BufferCount is the number of driver-side frame buffer slots.
	BufferCount int
	// PacketSize is the network MTU used for streaming packets.
	PacketSize int
	// ResendTimeout is how long the driver waits before starting packet
	// resend bookkeeping for an incomplete frame.
	ResendTimeout time.Duration
}

// Driver is the entry point of an SDK binding.
type Driver interface {
	// OpenCamera establishes a control connection. It fails with a
	// StatusError if the camera does not answer within the heartbeat
	// timeout.
	OpenCamera(cfg ConnectConfig) (Camera, error)
}

// Camera is an open control connection to one device. All parameter queries
// reflect the device state at call time; the session layer reads them once
// during setup and treats them as immutable.
type Camera interface {
	ManufacturerName() (string, error)
	ModelName() (string, error)

	// TickFrequency returns the rate of the device timestamp clock in
	// ticks per second.
	TickFrequency() (uint64, error)
	ImagerWidth() (int, error)
	ImagerHeight() (int, error)

	// SetPixelDepth configures the transfer depth in bits per pixel.
	SetPixelDepth(bits int) error

	// BufferSize returns the size in bytes of one frame buffer for the
	// current format.
	BufferSize() (int, error)

	// AddStream opens a streaming channel and registers cb for its
	// events. The channel is created disabled; call Stream.Enable to
	// start data flow.
	AddStream(cfg StreamConfig, cb StreamCallback) (Stream, error)

	// Close releases the control connection. The camera must have no
	// open streams.
	Close() error
}

// Stream is an open streaming channel.
type Stream interface {
	// Enable starts or stops frame delivery to the registered callback.
	Enable(on bool) error

	// LocalAddr returns the IP and UDP port the driver bound for the
	// data channel.
	LocalAddr() (ip string, port int)

	// Close disables the channel if needed and releases it. After Close
	// returns the callback will not be invoked again.
	Close() error
}
