// Package metrics provides Prometheus metrics for camera sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "frames_received_total",
		Help:      "Frames admitted to the session queue",
	}, []string{"camera"})

	framesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "frames_dropped_total",
		Help:      "Frames evicted from a full queue (drop-oldest)",
	}, []string{"camera"})

	ingestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "ingest_errors_total",
		Help:      "Driver callback failures that dropped a frame",
	}, []string{"camera"})

	devicesLost = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "device_lost_total",
		Help:      "Heartbeat losses observed after successful setup",
	}, []string{"camera"})

	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "queue_depth",
		Help:      "Frames currently queued for the consumer",
	}, []string{"camera"})

	cameraUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "camera",
		Name:      "up",
		Help:      "1 while the session is ready, 0 after device loss",
	}, []string{"camera"})
)

// IncFramesReceived counts a frame admitted to the queue.
func IncFramesReceived(camera string) {
	framesReceived.WithLabelValues(camera).Inc()
}

// IncFramesDropped counts a frame evicted by the queue bound.
func IncFramesDropped(camera string) {
	framesDropped.WithLabelValues(camera).Inc()
}

// IncIngestErrors counts a callback failure that dropped a frame.
func IncIngestErrors(camera string) {
	ingestErrors.WithLabelValues(camera).Inc()
}

// IncDeviceLost counts a heartbeat loss and marks the camera down.
func IncDeviceLost(camera string) {
	devicesLost.WithLabelValues(camera).Inc()
	cameraUp.WithLabelValues(camera).Set(0)
}

// SetQueueDepth records the current queue length.
func SetQueueDepth(camera string, depth int) {
	queueDepth.WithLabelValues(camera).Set(float64(depth))
}

// SetCameraUp marks the camera session ready.
func SetCameraUp(camera string) {
	cameraUp.WithLabelValues(camera).Set(1)
}

// DeleteCamera removes all metrics for a closed session.
func DeleteCamera(camera string) {
	framesReceived.DeleteLabelValues(camera)
	framesDropped.DeleteLabelValues(camera)
	ingestErrors.DeleteLabelValues(camera)
	devicesLost.DeleteLabelValues(camera)
	queueDepth.DeleteLabelValues(camera)
	cameraUp.DeleteLabelValues(camera)
}

// HTTPHandler returns the Prometheus metrics HTTP handler. It serves all
// promauto-registered metrics.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}
