package camera

// readiness tracks how far session setup has progressed. Each stage is only
// reachable from its predecessor, and teardown for a stage releases exactly
// the resources of that stage and every earlier one, in reverse order.
type readiness int

// Setup stages, in strict forward order.
const (
	stageNotReady    readiness = iota // no resources held
	stageConnected                    // control connection open
	stageIdentity                     // identity string captured
	stageStreamOpen                   // streaming channel open, not yet enabled
	stageReady                        // streaming enabled, terminal
)

func (r readiness) String() string {
	switch r {
	case stageNotReady:
		return "not-ready"
	case stageConnected:
		return "connected"
	case stageIdentity:
		return "identity-allocated"
	case stageStreamOpen:
		return "stream-open"
	case stageReady:
		return "ready"
	}
	return "unknown"
}

// teardown releases the resources of every stage up to and including the one
// reached. The fallthrough chain structurally enforces the reverse-order
// cleanup invariant: closing the stream always precedes closing the control
// connection, with the identity stage passed through in between.
func (s *Session) teardown(reached readiness) {
	switch reached {
	case stageReady, stageStreamOpen:
		// Closing the stream disables it first; the driver guarantees
		// the callback cannot fire once Close returns, so everything
		// released below is unreachable from the ingest path.
		if s.stream != nil {
			if err := s.stream.Close(); err != nil {
				s.logger.Warn("Failed to close stream", "camera", s.device, "error", err)
			}
			s.stream = nil
		}
		fallthrough
	case stageIdentity:
		// The identity string holds no resource; the stage exists so the
		// teardown order stays aligned with setup. Accessors keep reading
		// it lock-free after a concurrent Close.
		fallthrough
	case stageConnected:
		if s.cam != nil {
			if err := s.cam.Close(); err != nil {
				s.logger.Warn("Failed to close camera connection", "camera", s.device, "error", err)
			}
			s.cam = nil
		}
	case stageNotReady:
		// Nothing held.
	}
}
