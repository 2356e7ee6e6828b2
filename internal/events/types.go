package events

// Event type constants for kelindar/event.
const (
	TypeCameraConnected uint32 = iota + 1
	TypeCameraDisconnected
	TypeDeviceLost
	TypeFrameDropped
	TypeIngestError
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CameraConnectedEvent is published when a session reaches the ready stage.
type CameraConnectedEvent struct {
	DeviceAddr string `json:"device_addr" example:"192.168.1.10" doc:"IP address of the camera"`
	Identity   string `json:"identity" example:"SVS-VISTEK eco204MVGE" doc:"Manufacturer and model"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraConnectedEvent.
func (e CameraConnectedEvent) Type() uint32 { return TypeCameraConnected }

// CameraDisconnectedEvent is published when a session is closed by the
// consumer.
type CameraDisconnectedEvent struct {
	DeviceAddr string `json:"device_addr" example:"192.168.1.10" doc:"IP address of the camera"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraDisconnectedEvent.
func (e CameraDisconnectedEvent) Type() uint32 { return TypeCameraDisconnected }

// DeviceLostEvent is published when the driver reports a missed heartbeat
// after successful setup. The session is dead; the consumer must close it.
type DeviceLostEvent struct {
	DeviceAddr string `json:"device_addr" example:"192.168.1.10" doc:"IP address of the camera"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceLostEvent.
func (e DeviceLostEvent) Type() uint32 { return TypeDeviceLost }

// FrameDroppedEvent is published when the bounded queue evicts its oldest
// frame to admit a new one.
type FrameDroppedEvent struct {
	DeviceAddr string `json:"device_addr" example:"192.168.1.10" doc:"IP address of the camera"`
	FrameID    uint64 `json:"frame_id" example:"1042" doc:"Sequence number of the admitted frame"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for FrameDroppedEvent.
func (e FrameDroppedEvent) Type() uint32 { return TypeFrameDropped }

// IngestErrorEvent is published when the driver callback could not turn a
// completed buffer into a queued frame. The frame is dropped; the session
// stays up.
type IngestErrorEvent struct {
	DeviceAddr string `json:"device_addr" example:"192.168.1.10" doc:"IP address of the camera"`
	Error      string `json:"error" doc:"Description of the ingest failure"`
	Timestamp  string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for IngestErrorEvent.
func (e IngestErrorEvent) Type() uint32 { return TypeIngestError }
