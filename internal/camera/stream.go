package camera

import "github.com/gigevision/camnode/pkg/svgige"

// openStream establishes the streaming channel for a connected session and
// enables data flow. The channel is opened with the session's snapshot of
// the frame buffer size, the configured buffer count and packet size, and
// the fixed packet-resend timeout; the ingest callback is registered so
// completed buffers reach the frame queue. Failure at any step is fatal for
// the whole session; retry and resend live below this boundary, in the
// driver.
func (s *Session) openStream() error {
	stream, err := s.cam.AddStream(svgige.StreamConfig{
		BufferSize:    s.bufferSize,
		BufferCount:   s.opts.BufferCount,
		PacketSize:    s.opts.PacketSize,
		ResendTimeout: PacketResendTimeout,
	}, s.ingest)
	if err != nil {
		return protocolError("failed to open streaming channel", err)
	}
	s.stream = stream
	s.streamIP, s.streamPort = stream.LocalAddr()
	s.stage = stageStreamOpen

	// No separate start call: data flows as soon as the channel is
	// enabled.
	if err := stream.Enable(true); err != nil {
		return protocolError("failed to enable streaming channel", err)
	}
	s.stage = stageReady
	return nil
}
