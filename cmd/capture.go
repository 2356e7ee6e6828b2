package cmd

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigevision/camnode/internal/camera"
	"github.com/gigevision/camnode/internal/logging"
	"github.com/gigevision/camnode/pkg/svgige"
)

// CreateCaptureCmd creates the capture command. It opens a single camera
// session, grabs a number of frames, and writes them as PGM files.
func CreateCaptureCmd() *cobra.Command {
	var (
		driverName  string
		source      string
		count       int
		outputDir   string
		timeout     time.Duration
		bufferCount int
		packetSize  int
		queueLength int
		logJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "capture <device-ip>",
		Short: "Capture frames from a camera",
		Long: `Connects to the camera at the given IP address, starts streaming, and ` +
			`writes the requested number of frames to disk as PGM images.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			device := args[0]

			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("capture").With("camera", device)

			drv, err := svgige.Open(driverName)
			if err != nil {
				return err
			}

			opts := camera.Options{
				BufferCount: bufferCount,
				PacketSize:  packetSize,
				QueueLength: queueLength,
			}
			sess, err := camera.Open(drv, device, source, &opts, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			for i := 0; i < count; i++ {
				frame, err := sess.NextFrame(ctx)
				if err != nil {
					return fmt.Errorf("waiting for frame %d: %w", i, err)
				}

				path := filepath.Join(outputDir, fmt.Sprintf("frame-%06d.pgm", frame.FrameID))
				if err := writePGM(path, frame); err != nil {
					return err
				}
				logger.Info("Frame written", "path", path, "frame_id", frame.FrameID)
			}

			stats := sess.Stats()
			logger.Info("Capture finished",
				"frames", count, "received", stats.Received, "dropped", stats.Dropped)
			return nil
		},
	}

	cmd.Flags().StringVar(&driverName, "driver", "sim", "Driver to open the camera with")
	cmd.Flags().StringVar(&source, "source", "", "Local interface IP, empty for auto-selection")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of frames to capture")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write PGM files to")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall capture deadline")
	cmd.Flags().IntVar(&bufferCount, "buffer-count", camera.DefaultBufferCount, "Driver receive buffer slots")
	cmd.Flags().IntVar(&packetSize, "packet-size", camera.DefaultPacketSize, "Streaming packet size in bytes")
	cmd.Flags().IntVar(&queueLength, "queue-length", camera.DefaultQueueLength, "Frame queue bound, 0 for unbounded")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}

// writePGM writes a frame as a binary PGM image. Pixels deeper than 8 bits
// are stored two bytes per pixel little-endian by the driver; PGM wants
// big-endian, so they get swapped on the way out.
func writePGM(path string, frame *camera.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	maxval := (1 << frame.Depth) - 1
	if _, err := fmt.Fprintf(f, "P5\n%d %d\n%d\n", frame.Width, frame.Height, maxval); err != nil {
		return err
	}

	if frame.Depth <= 8 {
		_, err = f.Write(frame.Data)
		return err
	}

	out := make([]byte, len(frame.Data))
	for i := 0; i+1 < len(frame.Data); i += 2 {
		v := binary.LittleEndian.Uint16(frame.Data[i:])
		binary.BigEndian.PutUint16(out[i:], v)
	}
	_, err = f.Write(out)
	return err
}
