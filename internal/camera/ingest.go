package camera

import (
	"fmt"

	"github.com/gigevision/camnode/internal/events"
	"github.com/gigevision/camnode/internal/metrics"
	"github.com/gigevision/camnode/pkg/svgige"
)

// ingest is the stream callback. It runs on a driver-owned thread,
// concurrently with every consumer operation, and shares the resend path
// with the driver's packet bookkeeping: it must return promptly and must
// never panic into the driver. Any failure here drops the frame and records
// the condition; it never fails the session.
func (s *Session) ingest(ev svgige.StreamEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.recordIngestError(fmt.Errorf("panic in frame ingestion: %v", r))
		}
	}()

	switch ev.Signal {
	case svgige.SignalFrameCompleted:
		s.ingestFrame(ev.Frame)
	case svgige.SignalFrameAbandoned:
		s.recordIngestError(fmt.Errorf("driver abandoned frame transfer"))
	case svgige.SignalConnectionLost:
		s.markLost()
	}
}

// ingestFrame copies the completed buffer out of driver memory, stamps it
// with the driver metadata and the session geometry, and queues it.
func (s *Session) ingestFrame(fb *svgige.FrameBuffer) {
	if fb == nil || len(fb.Data) == 0 {
		s.recordIngestError(fmt.Errorf("driver delivered an empty frame buffer"))
		return
	}

	// The driver buffer is only valid until this callback returns.
	data := make([]byte, len(fb.Data))
	copy(data, fb.Data)

	evicted := s.queue.push(&Frame{
		Data:      data,
		Timestamp: fb.Timestamp,
		FrameID:   fb.FrameID,
		Width:     s.width,
		Height:    s.height,
		Depth:     s.depth,
	})

	metrics.IncFramesReceived(s.device)
	metrics.SetQueueDepth(s.device, s.queue.length())
	if evicted {
		metrics.IncFramesDropped(s.device)
		s.publish(events.FrameDroppedEvent{
			DeviceAddr: s.device,
			FrameID:    fb.FrameID,
			Timestamp:  eventTime(),
		})
	}
}

// markLost latches device loss: the queue stops admitting frames and a
// blocked NextFrame wakes with ErrDeviceLost once drained.
func (s *Session) markLost() {
	if !s.lost.CompareAndSwap(false, true) {
		return
	}
	s.queue.close()
	metrics.IncDeviceLost(s.device)
	s.publish(events.DeviceLostEvent{
		DeviceAddr: s.device,
		Timestamp:  eventTime(),
	})
	s.logger.Warn("Camera heartbeat lost", "camera", s.device)
}

func (s *Session) recordIngestError(err error) {
	metrics.IncIngestErrors(s.device)
	s.publish(events.IngestErrorEvent{
		DeviceAddr: s.device,
		Error:      err.Error(),
		Timestamp:  eventTime(),
	})
	s.logger.Warn("Frame dropped during ingestion", "camera", s.device, "error", err)
}
