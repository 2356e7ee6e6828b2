package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/gigevision/camnode/internal/events"
)

// registerEventRoutes registers the native Huma SSE endpoint.
func (s *Server) registerEventRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of camera lifecycle and frame delivery events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"camera-connected":    events.CameraConnectedEvent{},
		"camera-disconnected": events.CameraDisconnectedEvent{},
		"device-lost":         events.DeviceLostEvent{},
		"frame-dropped":       events.FrameDroppedEvent{},
		"ingest-error":        events.IngestErrorEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 64)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.CameraConnectedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.CameraDisconnectedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.DeviceLostEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.FrameDroppedEvent](s.bus, eventCh),
			events.SubscribeToChannel[events.IngestErrorEvent](s.bus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
