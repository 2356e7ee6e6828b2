package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gigevision/camnode/internal/api/models"
	"github.com/gigevision/camnode/internal/camera"
)

// registerCameraRoutes registers all camera session endpoints.
func (s *Server) registerCameraRoutes() {
	// List open sessions
	huma.Register(s.api, huma.Operation{
		OperationID: "list-cameras",
		Method:      http.MethodGet,
		Path:        "/api/cameras",
		Summary:     "List Cameras",
		Description: "Get the currently open camera sessions",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.CameraListResponse, error) {
		devices := s.manager.List()
		cameras := make([]models.CameraData, 0, len(devices))
		for _, device := range devices {
			sess, err := s.manager.Get(device)
			if err != nil {
				// Closed between List and Get, skip it.
				continue
			}
			cameras = append(cameras, sessionToAPI(sess))
		}

		return &models.CameraListResponse{
			Body: models.CameraListData{
				Cameras: cameras,
				Count:   len(cameras),
			},
		}, nil
	})

	// Open a camera
	huma.Register(s.api, huma.Operation{
		OperationID: "open-camera",
		Method:      http.MethodPost,
		Path:        "/api/cameras",
		Summary:     "Open Camera",
		Description: "Connect to a camera, start streaming, and register the session",
		Tags:        []string{"cameras"},
		Errors:      []int{400, 401, 409, 502, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.OpenCameraRequest) (*models.CameraResponse, error) {
		opts := camera.DefaultOptions()
		if input.Body.BufferCount > 0 {
			opts.BufferCount = input.Body.BufferCount
		}
		if input.Body.PacketSize > 0 {
			opts.PacketSize = input.Body.PacketSize
		}
		switch {
		case input.Body.QueueLength > 0:
			opts.QueueLength = input.Body.QueueLength
		case input.Body.QueueLength < 0:
			opts.QueueLength = 0 // unbounded
		}

		sess, err := s.manager.Open(input.Body.Device, input.Body.Source, &opts)
		if err != nil {
			return nil, mapCameraError(err)
		}

		return &models.CameraResponse{Body: sessionToAPI(sess)}, nil
	})

	// Inspect a session
	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{device}",
		Summary:     "Get Camera",
		Description: "Get details of an open camera session",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Device string `path:"device" example:"192.168.1.50" doc:"Camera IP address"`
	}) (*models.CameraResponse, error) {
		sess, err := s.manager.Get(input.Device)
		if err != nil {
			return nil, mapCameraError(err)
		}

		return &models.CameraResponse{Body: sessionToAPI(sess)}, nil
	})

	// Close a session
	huma.Register(s.api, huma.Operation{
		OperationID: "close-camera",
		Method:      http.MethodDelete,
		Path:        "/api/cameras/{device}",
		Summary:     "Close Camera",
		Description: "Tear down an open camera session",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Device string `path:"device" example:"192.168.1.50" doc:"Camera IP address"`
	}) (*struct{}, error) {
		if err := s.manager.Close(input.Device); err != nil {
			return nil, mapCameraError(err)
		}
		return &struct{}{}, nil
	})

	// Queue statistics
	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera-stats",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{device}/stats",
		Summary:     "Get Camera Stats",
		Description: "Get frame queue statistics for an open session",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 404, 500},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Device string `path:"device" example:"192.168.1.50" doc:"Camera IP address"`
	}) (*models.CameraStatsResponse, error) {
		sess, err := s.manager.Get(input.Device)
		if err != nil {
			return nil, mapCameraError(err)
		}

		stats := sess.Stats()
		return &models.CameraStatsResponse{
			Body: models.CameraStatsData{
				Device:     sess.Device(),
				Received:   stats.Received,
				Dropped:    stats.Dropped,
				QueueDepth: stats.QueueDepth,
			},
		}, nil
	})

	// Fetch a frame
	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera-frame",
		Method:      http.MethodGet,
		Path:        "/api/cameras/{device}/frame",
		Summary:     "Get Frame",
		Description: "Pop the oldest queued frame as raw pixel data. With timeout_ms the request blocks until a frame arrives or the timeout expires.",
		Tags:        []string{"cameras"},
		Errors:      []int{401, 404, 410, 504},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Device    string `path:"device" example:"192.168.1.50" doc:"Camera IP address"`
		TimeoutMs int    `query:"timeout_ms" minimum:"0" example:"5000" doc:"Block up to this many milliseconds for a frame, 0 returns immediately"`
	}) (*models.FrameResponse, error) {
		sess, err := s.manager.Get(input.Device)
		if err != nil {
			return nil, mapCameraError(err)
		}

		var frame *camera.Frame
		if input.TimeoutMs > 0 {
			waitCtx, cancel := context.WithTimeout(ctx, time.Duration(input.TimeoutMs)*time.Millisecond)
			defer cancel()
			frame, err = sess.NextFrame(waitCtx)
		} else {
			frame, err = sess.TryNextFrame()
		}
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, huma.Error504GatewayTimeout("timed out waiting for a frame", err)
			}
			return nil, mapCameraError(err)
		}

		return &models.FrameResponse{
			ContentType: "application/octet-stream",
			FrameID:     frame.FrameID,
			Timestamp:   frame.Timestamp,
			Width:       frame.Width,
			Height:      frame.Height,
			Depth:       frame.Depth,
			Body:        frame.Data,
		}, nil
	})
}

// sessionToAPI converts a session to its API representation.
func sessionToAPI(sess *camera.Session) models.CameraData {
	ip, port := sess.StreamAddr()
	return models.CameraData{
		Device:     sess.Device(),
		Identity:   sess.Identity(),
		Width:      sess.Width(),
		Height:     sess.Height(),
		Depth:      sess.Depth(),
		BufferSize: sess.BufferSize(),
		TickFreq:   sess.TickFrequency(),
		StreamIP:   ip,
		StreamPort: port,
		Lost:       sess.Lost(),
	}
}

// mapCameraError maps domain errors to HTTP errors.
func mapCameraError(err error) error {
	var camErr *camera.Error
	if errors.As(err, &camErr) {
		switch camErr.Code {
		case camera.ErrCodeNotFound:
			return huma.Error404NotFound(camErr.Message, err)
		case camera.ErrCodeQueueEmpty:
			return huma.Error404NotFound(camErr.Message, err)
		case camera.ErrCodeAlreadyOpen:
			return huma.Error409Conflict(camErr.Message, err)
		case camera.ErrCodeDeviceLost, camera.ErrCodeSessionClosed:
			return huma.Error410Gone(camErr.Message, err)
		case camera.ErrCodeConnection, camera.ErrCodeProtocol:
			return huma.Error502BadGateway(camErr.Message, err)
		default:
			return huma.Error500InternalServerError("internal server error", err)
		}
	}
	return huma.Error500InternalServerError("internal server error", err)
}
