package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// CameraConfig describes a single camera definition persisted to disk.
// Zero values for the stream parameters mean "use the session defaults".
type CameraConfig struct {
	ID      string `toml:"id" json:"id"`
	Name    string `toml:"name" json:"name"`
	Device  string `toml:"device" json:"device"` // camera IP address
	Source  string `toml:"source,omitempty" json:"source,omitempty"`
	Enabled bool   `toml:"enabled" json:"enabled"`

	// Stream settings
	BufferCount int `toml:"buffer_count,omitempty" json:"buffer_count,omitempty"`
	PacketSize  int `toml:"packet_size,omitempty" json:"packet_size,omitempty"`
	QueueLength int `toml:"queue_length,omitempty" json:"queue_length,omitempty"`

	// Metadata
	CreatedAt time.Time `toml:"created_at" json:"created_at"`
	UpdatedAt time.Time `toml:"updated_at" json:"updated_at"`
}

// CamerasConfig is the on-disk camera inventory file.
type CamerasConfig struct {
	Version int                     `toml:"version" json:"version"`
	Cameras map[string]CameraConfig `toml:"cameras" json:"cameras"`
}

// CameraStore manages the persisted camera inventory. Safe for concurrent
// use; the API edits definitions while the daemon reads them.
type CameraStore struct {
	mu         sync.Mutex
	configPath string
	config     *CamerasConfig
}

// NewCameraStore creates a store backed by the given TOML file.
func NewCameraStore(configPath string) *CameraStore {
	if configPath == "" {
		configPath = "cameras.toml"
	}

	return &CameraStore{
		configPath: configPath,
		config: &CamerasConfig{
			Version: 1,
			Cameras: make(map[string]CameraConfig),
		},
	}
}

// Load reads the inventory from disk. A missing file is not an error.
func (cs *CameraStore) Load() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, err := os.Stat(cs.configPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(cs.configPath)
	if err != nil {
		return fmt.Errorf("failed to read cameras config: %w", err)
	}

	if err := toml.Unmarshal(data, cs.config); err != nil {
		return fmt.Errorf("failed to parse cameras config: %w", err)
	}

	if cs.config.Cameras == nil {
		cs.config.Cameras = make(map[string]CameraConfig)
	}
	if cs.config.Version == 0 {
		cs.config.Version = 1
	}

	return nil
}

// Save writes the inventory back to disk.
func (cs *CameraStore) Save() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.saveLocked()
}

func (cs *CameraStore) saveLocked() error {
	dir := filepath.Dir(cs.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cs.config)
	if err != nil {
		return fmt.Errorf("failed to marshal cameras config: %w", err)
	}

	if err := os.WriteFile(cs.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cameras config: %w", err)
	}

	return nil
}

// Add registers a new camera definition and persists the inventory.
func (cs *CameraStore) Add(camera CameraConfig) error {
	if camera.ID == "" {
		return fmt.Errorf("camera ID cannot be empty")
	}
	if camera.Device == "" {
		return fmt.Errorf("device address cannot be empty")
	}
	if camera.Name == "" {
		camera.Name = camera.ID
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := time.Now()
	if camera.CreatedAt.IsZero() {
		camera.CreatedAt = now
	}
	camera.UpdatedAt = now

	cs.config.Cameras[camera.ID] = camera
	return cs.saveLocked()
}

// Update modifies an existing camera definition.
func (cs *CameraStore) Update(id string, updates CameraConfig) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	existing, exists := cs.config.Cameras[id]
	if !exists {
		return fmt.Errorf("camera %s not found", id)
	}

	updates.ID = existing.ID
	updates.CreatedAt = existing.CreatedAt
	updates.UpdatedAt = time.Now()

	if updates.Name == "" {
		updates.Name = existing.Name
	}
	if updates.Device == "" {
		updates.Device = existing.Device
	}

	cs.config.Cameras[id] = updates
	return cs.saveLocked()
}

// Remove deletes a camera definition.
func (cs *CameraStore) Remove(id string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, exists := cs.config.Cameras[id]; !exists {
		return fmt.Errorf("camera %s not found", id)
	}

	delete(cs.config.Cameras, id)
	return cs.saveLocked()
}

// Get retrieves a camera definition by ID.
func (cs *CameraStore) Get(id string) (CameraConfig, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	camera, exists := cs.config.Cameras[id]
	return camera, exists
}

// All returns a snapshot of every camera definition.
func (cs *CameraStore) All() map[string]CameraConfig {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	all := make(map[string]CameraConfig, len(cs.config.Cameras))
	for id, camera := range cs.config.Cameras {
		all[id] = camera
	}
	return all
}

// Enabled returns only the camera definitions marked enabled.
func (cs *CameraStore) Enabled() map[string]CameraConfig {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	enabled := make(map[string]CameraConfig)
	for id, camera := range cs.config.Cameras {
		if camera.Enabled {
			enabled[id] = camera
		}
	}
	return enabled
}
