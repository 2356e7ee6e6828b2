package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gigevision/camnode/internal/camera"
	"github.com/gigevision/camnode/internal/logging"
	"github.com/gigevision/camnode/pkg/svgige"
)

// CreateProbeCmd creates the probe command. It connects to a camera, prints
// its identity and parameters, and disconnects without streaming frames to
// disk.
func CreateProbeCmd() *cobra.Command {
	var (
		driverName string
		source     string
	)

	cmd := &cobra.Command{
		Use:   "probe <device-ip>",
		Short: "Connect to a camera and print its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device := args[0]

			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			drv, err := svgige.Open(driverName)
			if err != nil {
				return err
			}

			sess, err := camera.Open(drv, device, source, nil, nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			ip, port := sess.StreamAddr()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Device:         %s\n", sess.Device())
			fmt.Fprintf(out, "Identity:       %s\n", sess.Identity())
			fmt.Fprintf(out, "Geometry:       %dx%d\n", sess.Width(), sess.Height())
			fmt.Fprintf(out, "Pixel depth:    %d bit\n", sess.Depth())
			fmt.Fprintf(out, "Buffer size:    %d bytes\n", sess.BufferSize())
			fmt.Fprintf(out, "Tick frequency: %d Hz\n", sess.TickFrequency())
			fmt.Fprintf(out, "Stream channel: %s:%d\n", ip, port)
			return nil
		},
	}

	cmd.Flags().StringVar(&driverName, "driver", "sim", "Driver to open the camera with")
	cmd.Flags().StringVar(&source, "source", "", "Local interface IP, empty for auto-selection")

	// Completion for the driver flag from the registry.
	_ = cmd.RegisterFlagCompletionFunc("driver", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return svgige.Drivers(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.Long = "Opens a full session against the camera, reads the identity and geometry, " +
		"then tears everything down again. Available drivers: " + strings.Join(svgige.Drivers(), ", ") + "."

	return cmd
}
