package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"a1b2c3d" doc:"Git commit hash"`
	BuildDate string `json:"build_date" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Build platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Camera session models
type CameraData struct {
	Device     string `json:"device" example:"192.168.1.50" doc:"Camera IP address"`
	Identity   string `json:"identity" example:"SVS-VISTEK eco204MVGE" doc:"Manufacturer and model"`
	Width      int    `json:"width" example:"1280" doc:"Imager width in pixels"`
	Height     int    `json:"height" example:"1024" doc:"Imager height in pixels"`
	Depth      int    `json:"depth" example:"12" doc:"Pixel depth in bits"`
	BufferSize int    `json:"buffer_size" example:"2621440" doc:"Frame buffer size in bytes"`
	TickFreq   uint64 `json:"tick_frequency" example:"66666667" doc:"Camera timestamp tick frequency in Hz"`
	StreamIP   string `json:"stream_ip,omitempty" example:"192.168.1.2" doc:"Local streaming channel address"`
	StreamPort int    `json:"stream_port,omitempty" example:"40200" doc:"Local streaming channel port"`
	Lost       bool   `json:"lost" doc:"Whether the device connection has been lost"`
}

type CameraResponse struct {
	Body CameraData
}

type CameraListData struct {
	Cameras []CameraData `json:"cameras" doc:"Open camera sessions"`
	Count   int          `json:"count" example:"1" doc:"Number of open sessions"`
}

type CameraListResponse struct {
	Body CameraListData
}

type OpenCameraRequestData struct {
	Device      string `json:"device" minLength:"1" example:"192.168.1.50" doc:"Camera IP address"`
	Source      string `json:"source,omitempty" example:"192.168.1.2" doc:"Local interface IP, defaults to auto-selection"`
	BufferCount int    `json:"buffer_count,omitempty" minimum:"0" example:"10" doc:"Number of driver receive buffers"`
	PacketSize  int    `json:"packet_size,omitempty" minimum:"0" example:"9000" doc:"Streaming packet size in bytes"`
	QueueLength int    `json:"queue_length,omitempty" minimum:"-1" example:"50" doc:"Frame queue bound, -1 for unbounded"`
}

type OpenCameraRequest struct {
	Body OpenCameraRequestData
}

// Queue statistics models
type CameraStatsData struct {
	Device     string `json:"device" example:"192.168.1.50" doc:"Camera IP address"`
	Received   uint64 `json:"received" example:"1024" doc:"Frames received from the driver"`
	Dropped    uint64 `json:"dropped" example:"3" doc:"Frames evicted from a full queue"`
	QueueDepth int    `json:"queue_depth" example:"12" doc:"Frames currently queued"`
}

type CameraStatsResponse struct {
	Body CameraStatsData
}

// Frame response carries raw pixel data with metadata in headers.
type FrameResponse struct {
	ContentType string `header:"Content-Type"`
	FrameID     uint64 `header:"X-Frame-Id"`
	Timestamp   uint64 `header:"X-Frame-Timestamp"`
	Width       int    `header:"X-Frame-Width"`
	Height      int    `header:"X-Frame-Height"`
	Depth       int    `header:"X-Frame-Depth"`
	Body        []byte
}

// Camera inventory models. Definitions live in cameras.toml; enabled ones
// are opened when the daemon starts.
type CameraDefinitionData struct {
	ID          string `json:"id" example:"lab-cam" doc:"Definition identifier"`
	Name        string `json:"name" example:"Lab bench camera" doc:"Human-readable name"`
	Device      string `json:"device" example:"192.168.1.50" doc:"Camera IP address"`
	Source      string `json:"source,omitempty" example:"192.168.1.2" doc:"Local interface IP, defaults to auto-selection"`
	Enabled     bool   `json:"enabled" doc:"Open this camera at daemon startup"`
	BufferCount int    `json:"buffer_count,omitempty" minimum:"0" doc:"Driver receive buffers, 0 for the daemon default"`
	PacketSize  int    `json:"packet_size,omitempty" minimum:"0" doc:"Streaming packet size in bytes, 0 for the daemon default"`
	QueueLength int    `json:"queue_length,omitempty" doc:"Frame queue bound, 0 for the daemon default"`
	CreatedAt   string `json:"created_at,omitempty" doc:"Definition creation time, RFC 3339"`
	UpdatedAt   string `json:"updated_at,omitempty" doc:"Last modification time, RFC 3339"`
}

type CameraDefinitionResponse struct {
	Body CameraDefinitionData
}

type CameraDefinitionListData struct {
	Cameras []CameraDefinitionData `json:"cameras" doc:"Persisted camera definitions"`
	Count   int                    `json:"count" doc:"Number of definitions"`
}

type CameraDefinitionListResponse struct {
	Body CameraDefinitionListData
}

type SaveCameraDefinitionRequestData struct {
	Name        string `json:"name,omitempty" example:"Lab bench camera" doc:"Human-readable name, defaults to the ID"`
	Device      string `json:"device" minLength:"1" example:"192.168.1.50" doc:"Camera IP address"`
	Source      string `json:"source,omitempty" doc:"Local interface IP"`
	Enabled     bool   `json:"enabled,omitempty" doc:"Open this camera at daemon startup"`
	BufferCount int    `json:"buffer_count,omitempty" minimum:"0" doc:"Driver receive buffers"`
	PacketSize  int    `json:"packet_size,omitempty" minimum:"0" doc:"Streaming packet size in bytes"`
	QueueLength int    `json:"queue_length,omitempty" doc:"Frame queue bound"`
}

type SaveCameraDefinitionRequest struct {
	ID   string `path:"id" example:"lab-cam" doc:"Definition identifier"`
	Body SaveCameraDefinitionRequestData
}

// Log history models
type LogEntryData struct {
	Timestamp  string         `json:"timestamp" doc:"Entry timestamp, RFC 3339"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"camera" doc:"Originating module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Recent log entries, oldest first"`
	Count   int            `json:"count" doc:"Number of entries"`
}

type LogsResponse struct {
	Body LogsData
}
