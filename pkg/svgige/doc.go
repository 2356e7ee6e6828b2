// Package svgige defines the driver boundary for SVGigE-style GigE Vision
// cameras: the opaque SDK surface the rest of the project programs against.
//
// The package does not speak the GigE Vision wire protocol itself. A driver
// implementation (an SDK binding, or the built-in simulator) owns discovery,
// packet handling and resend bookkeeping; this package fixes the contract:
// connect, query static parameters, open and enable a streaming channel, and
// deliver completed frame buffers through a callback.
//
// # Drivers
//
// Implementations register themselves by name:
//
//	svgige.Register("sim", func() svgige.Driver { return svgige.NewSimDriver(svgige.SimConfig{}) })
//
//	drv, err := svgige.Open("sim")
//	cam, err := drv.OpenCamera(svgige.ConnectConfig{
//	    DeviceAddr:       "192.168.1.10",
//	    SourceAddr:       "192.168.1.1",
//	    HeartbeatTimeout: 3 * time.Second,
//	})
//
// # Status codes
//
// Driver failures carry a numeric SDK status code. ErrorMessage translates a
// code through the driver-supplied message table and never fails; unknown
// codes fall back to a generic message.
//
// # Callback context
//
// Stream callbacks run on a thread owned by the driver. A FrameBuffer passed
// to a callback is only valid until the callback returns; consumers must copy
// the pixel data they intend to keep.
package svgige
