package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testOptions struct {
	Config      string `toml:"-" env:"CONFIG"`
	Port        int    `toml:"server.port" env:"PORT"`
	Auth        string `toml:"server.auth" env:"AUTH"`
	Driver      string `toml:"camera.driver" env:"DRIVER"`
	QueueLength int    `toml:"camera.queue_length" env:"QUEUE_LENGTH"`
	Debug       bool   `toml:"debug" env:"DEBUG"`
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camnode.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
debug = true

[server]
port = 9090
auth = "user:pass"

[camera]
driver = "sim"
queue_length = 25
`)

	opts := testOptions{Config: path, Port: 8080}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatal(err)
	}

	if opts.Port != 9090 {
		t.Errorf("Port = %d, want 9090", opts.Port)
	}
	if opts.Auth != "user:pass" {
		t.Errorf("Auth = %q, want user:pass", opts.Auth)
	}
	if opts.Driver != "sim" {
		t.Errorf("Driver = %q, want sim", opts.Driver)
	}
	if opts.QueueLength != 25 {
		t.Errorf("QueueLength = %d, want 25", opts.QueueLength)
	}
	if !opts.Debug {
		t.Error("Debug should be true")
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9090
`)

	t.Setenv("CAMNODE_PORT", "7070")

	opts := testOptions{Config: path}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatal(err)
	}

	if opts.Port != 7070 {
		t.Errorf("Port = %d, want env override 7070", opts.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := testOptions{Config: "/nonexistent/camnode.toml", Port: 8080}
	if err := LoadConfig(&opts, nil); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if opts.Port != 8080 {
		t.Errorf("Port = %d, want default 8080 preserved", opts.Port)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := writeConfigFile(t, `not valid = = toml`)

	opts := testOptions{Config: path}
	if err := LoadConfig(&opts, nil); err == nil {
		t.Error("expected parse error for invalid TOML")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Port", "port"},
		{"QueueLength", "queue-length"},
		{"LoggingLevel", "logging-level"},
	}
	for _, tt := range tests {
		if got := fieldNameToFlag(tt.in); got != tt.want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeConfigFile(t, `
[logging]
level = "debug"
format = "json"
camera = "warn"
api = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Modules["camera"] != "warn" {
		t.Errorf("camera module = %q, want warn", cfg.Modules["camera"])
	}
	if cfg.Modules["api"] != "error" {
		t.Errorf("api module = %q, want error", cfg.Modules["api"])
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg := LoadLoggingConfig("")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("defaults = %q/%q, want info/text", cfg.Level, cfg.Format)
	}
}

func TestCameraStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cameras.toml")
	store := NewCameraStore(path)

	if err := store.Load(); err != nil {
		t.Fatalf("loading missing file: %v", err)
	}

	err := store.Add(CameraConfig{
		ID:      "lab-cam",
		Device:  "192.168.1.50",
		Enabled: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Reload from disk and verify round trip.
	store2 := NewCameraStore(path)
	if err := store2.Load(); err != nil {
		t.Fatal(err)
	}

	cam, ok := store2.Get("lab-cam")
	if !ok {
		t.Fatal("lab-cam not found after reload")
	}
	if cam.Device != "192.168.1.50" {
		t.Errorf("Device = %q, want 192.168.1.50", cam.Device)
	}
	if cam.Name != "lab-cam" {
		t.Errorf("Name = %q, want defaulted lab-cam", cam.Name)
	}
	if len(store2.Enabled()) != 1 {
		t.Errorf("Enabled() = %d entries, want 1", len(store2.Enabled()))
	}

	if err := store2.Remove("lab-cam"); err != nil {
		t.Fatal(err)
	}
	if _, ok := store2.Get("lab-cam"); ok {
		t.Error("lab-cam should be gone after Remove")
	}

	if err := store2.Remove("missing"); err == nil {
		t.Error("removing unknown camera should error")
	}
}

func TestCameraStoreValidation(t *testing.T) {
	store := NewCameraStore(filepath.Join(t.TempDir(), "cameras.toml"))

	if err := store.Add(CameraConfig{Device: "192.168.1.50"}); err == nil {
		t.Error("empty ID should be rejected")
	}
	if err := store.Add(CameraConfig{ID: "cam"}); err == nil {
		t.Error("empty device should be rejected")
	}
}
