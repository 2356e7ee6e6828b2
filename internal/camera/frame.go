package camera

// Frame is one captured image plus its capture metadata. Data is an owned
// copy of the driver buffer; a Frame is immutable once queued.
type Frame struct {
	// Data holds the raw pixel buffer. For depths above 8 bits each pixel
	// occupies two bytes, little-endian, with the value right-aligned in
	// the low bits: a 12-bit pixel spans 0..4095.
	Data []byte

	// Timestamp is the capture time in device ticks. Divide by the
	// session's TickFrequency for seconds.
	Timestamp uint64

	// FrameID is the driver-assigned sequence number.
	FrameID uint64

	// Geometry of the imager at capture time, copied from the session.
	Width  int
	Height int
	Depth  int
}
