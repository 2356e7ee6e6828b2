package svgige

import (
	"sync"
	"time"
)

// SimConfig configures the built-in simulated driver.
type SimConfig struct {
	Manufacturer string        // default "SVS-VISTEK"
	Model        string        // default "SIM2048"
	Width        int           // default 1280
	Height       int           // default 1024
	FrameRate    time.Duration // interval between frames, default 100ms
	PixelDepth   int           // depths accepted by SetPixelDepth, default 8..16

	// ConnectStatus, when non-zero, makes OpenCamera fail with that code.
	ConnectStatus Status
}

// simDriver generates synthetic frames in-process. It exists so the daemon
// and CLI are exercisable without SDK hardware; bindings for real cameras
// register alongside it.
type simDriver struct {
	cfg SimConfig
}

// NewSimDriver creates a simulated driver.
func NewSimDriver(cfg SimConfig) Driver {
	if cfg.Manufacturer == "" {
		cfg.Manufacturer = "SVS-VISTEK"
	}
	if cfg.Model == "" {
		cfg.Model = "SIM2048"
	}
	if cfg.Width == 0 {
		cfg.Width = 1280
	}
	if cfg.Height == 0 {
		cfg.Height = 1024
	}
	if cfg.FrameRate == 0 {
		cfg.FrameRate = 100 * time.Millisecond
	}
	return &simDriver{cfg: cfg}
}

func init() {
	Register("sim", func() Driver { return NewSimDriver(SimConfig{}) })
}

// simTickFrequency mirrors the 66.6 MHz timestamp clock of the real devices.
const simTickFrequency uint64 = 66666667

func (d *simDriver) OpenCamera(cfg ConnectConfig) (Camera, error) {
	if d.cfg.ConnectStatus != StatusSuccess {
		return nil, NewStatusError(d.cfg.ConnectStatus)
	}
	if cfg.DeviceAddr == "" {
		return nil, NewStatusError(StatusInvalidArgs)
	}
	localIP := cfg.SourceAddr
	if localIP == "" {
		localIP = "0.0.0.0"
	}
	return &simCamera{cfg: d.cfg, localIP: localIP, depth: 8}, nil
}

type simCamera struct {
	mu      sync.Mutex
	cfg     SimConfig
	localIP string
	depth   int
	stream  *simStream
	closed  bool
}

func (c *simCamera) ManufacturerName() (string, error) { return c.cfg.Manufacturer, nil }

func (c *simCamera) ModelName() (string, error) { return c.cfg.Model, nil }

func (c *simCamera) TickFrequency() (uint64, error) { return simTickFrequency, nil }

func (c *simCamera) ImagerWidth() (int, error) { return c.cfg.Width, nil }

func (c *simCamera) ImagerHeight() (int, error) { return c.cfg.Height, nil }

func (c *simCamera) SetPixelDepth(bits int) error {
	if bits < 8 || bits > 16 {
		return NewStatusError(StatusPixelDepth)
	}
	c.mu.Lock()
	c.depth = bits
	c.mu.Unlock()
	return nil
}

func (c *simCamera) BufferSize() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bytesPerPixel := 1
	if c.depth > 8 {
		bytesPerPixel = 2
	}
	return c.cfg.Width * c.cfg.Height * bytesPerPixel, nil
}

func (c *simCamera) AddStream(cfg StreamConfig, cb StreamCallback) (Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, NewStatusError(StatusStreamFailed)
	}
	if c.stream != nil {
		return nil, NewStatusError(StatusStreamFailed)
	}
	if cfg.BufferSize <= 0 || cfg.BufferCount <= 0 || cb == nil {
		return nil, NewStatusError(StatusInvalidArgs)
	}

	s := &simStream{
		cam:      c,
		cb:       cb,
		size:     cfg.BufferSize,
		interval: c.cfg.FrameRate,
		localIP:  c.localIP,
		port:     40200,
		stop:     make(chan struct{}),
	}
	c.stream = s
	return s, nil
}

func (c *simCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return NewStatusError(StatusGeneralError)
	}
	c.closed = true
	return nil
}

type simStream struct {
	mu       sync.Mutex
	cam      *simCamera
	cb       StreamCallback
	size     int
	interval time.Duration
	localIP  string
	port     int

	enabled bool
	closed  bool
	stop    chan struct{}
	wg      sync.WaitGroup
	frameID uint64
}

func (s *simStream) Enable(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStatusError(StatusStreamFailed)
	}
	if on == s.enabled {
		return nil
	}
	s.enabled = on

	if on {
		s.stop = make(chan struct{})
		s.wg.Add(1)
		go s.generate(s.stop)
	} else {
		close(s.stop)
		s.mu.Unlock()
		s.wg.Wait()
		s.mu.Lock()
	}
	return nil
}

func (s *simStream) LocalAddr() (string, int) {
	return s.localIP, s.port
}

func (s *simStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	wasEnabled := s.enabled
	s.enabled = false
	if wasEnabled {
		close(s.stop)
	}
	s.mu.Unlock()

	// No callback fires after Close returns.
	s.wg.Wait()

	s.cam.mu.Lock()
	s.cam.stream = nil
	s.cam.mu.Unlock()
	return nil
}

// generate emits synthetic frames until stopped. The buffer is reused across
// frames, matching the driver contract that callback data is only valid
// until the callback returns.
func (s *simStream) generate(stop <-chan struct{}) {
	defer s.wg.Done()

	buf := make([]byte, s.size)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			id := s.frameID
			s.frameID++

			// Moving gradient so consecutive frames differ.
			for i := range buf {
				buf[i] = byte(uint64(i) + id)
			}

			ticks := uint64(time.Since(start)) * simTickFrequency / uint64(time.Second)
			s.cb(StreamEvent{
				Signal: SignalFrameCompleted,
				Frame: &FrameBuffer{
					Data:      buf,
					Timestamp: ticks,
					FrameID:   id,
				},
			})
		}
	}
}
