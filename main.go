package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/gigevision/camnode/cmd"
	"github.com/gigevision/camnode/internal/api"
	"github.com/gigevision/camnode/internal/camera"
	"github.com/gigevision/camnode/internal/config"
	"github.com/gigevision/camnode/internal/events"
	"github.com/gigevision/camnode/internal/logging"
	"github.com/gigevision/camnode/internal/metrics"
	"github.com/gigevision/camnode/pkg/svgige"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Camera settings
	Driver            string `help:"Camera driver" default:"sim" toml:"camera.driver" env:"CAMERA_DRIVER"`
	Source            string `help:"Local interface IP for streaming, empty for auto-selection" default:"" toml:"camera.source" env:"CAMERA_SOURCE"`
	CamerasConfigFile string `help:"Camera inventory file" default:"cameras.toml" toml:"camera.config_file" env:"CAMERAS_CONFIG_FILE"`
	BufferCount       int    `help:"Driver receive buffer slots" default:"10" toml:"camera.buffer_count" env:"CAMERA_BUFFER_COUNT"`
	PacketSize        int    `help:"Streaming packet size in bytes" default:"9000" toml:"camera.packet_size" env:"CAMERA_PACKET_SIZE"`
	QueueLength       int    `help:"Frame queue bound, 0 for unbounded" default:"50" toml:"camera.queue_length" env:"CAMERA_QUEUE_LENGTH"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCamera  string `help:"Camera logging level" default:"info" toml:"logging.camera" env:"LOGGING_CAMERA"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"camera":  opts.LoggingCamera,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
				"capture": opts.LoggingCapture,
			},
		})

		logger := logging.GetLogger("main")

		driver, err := svgige.Open(opts.Driver)
		if err != nil {
			logger.Error("Unknown camera driver", "driver", opts.Driver, "error", err)
			os.Exit(1)
		}

		eventBus := events.New()
		manager := camera.NewManager(driver, eventBus, logging.GetLogger("camera"))

		// Camera inventory: definitions marked enabled are opened at startup.
		store := config.NewCameraStore(opts.CamerasConfigFile)
		if loadErr := store.Load(); loadErr != nil {
			logger.Warn("Failed to load camera inventory", "error", loadErr)
		}

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Manager:           manager,
			Bus:               eventBus,
			Store:             store,
			PrometheusHandler: metrics.HTTPHandler(),
		})

		// Config watcher picks up logging level changes without a restart.
		watcher := config.NewConfigWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logger,
		)
		watcher.OnReload(func(cfg logging.Config) {
			logger.Info("Applying new logging levels", "level", cfg.Level)
			logging.UpdateLevels(cfg)
		})

		hooks.OnStart(func() {
			if watchErr := watcher.Start(); watchErr != nil {
				logger.Warn("Config watcher not started", "error", watchErr)
			}

			for id, cam := range store.Enabled() {
				camOpts := sessionOptions(opts, cam)
				source := cam.Source
				if source == "" {
					source = opts.Source
				}
				if _, openErr := manager.Open(cam.Device, source, &camOpts); openErr != nil {
					logger.Warn("Failed to open configured camera",
						"camera", id, "device", cam.Device, "error", openErr)
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			manager.CloseAll()

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Error("Error stopping config watcher", "error", stopErr)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateCaptureCmd())
	cli.Root().AddCommand(cmd.CreateProbeCmd())

	cli.Run()
}

// sessionOptions merges a camera definition with the daemon defaults.
func sessionOptions(opts *Options, cam config.CameraConfig) camera.Options {
	merged := camera.Options{
		BufferCount: opts.BufferCount,
		PacketSize:  opts.PacketSize,
		QueueLength: opts.QueueLength,
	}
	if cam.BufferCount > 0 {
		merged.BufferCount = cam.BufferCount
	}
	if cam.PacketSize > 0 {
		merged.PacketSize = cam.PacketSize
	}
	if cam.QueueLength != 0 {
		merged.QueueLength = cam.QueueLength
	}
	return merged
}
