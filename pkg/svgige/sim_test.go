package svgige

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func openSimCamera(t *testing.T) Camera {
	t.Helper()

	drv := NewSimDriver(SimConfig{
		Width:     32,
		Height:    16,
		FrameRate: 2 * time.Millisecond,
	})
	cam, err := drv.OpenCamera(ConnectConfig{DeviceAddr: "192.168.1.50"})
	if err != nil {
		t.Fatalf("OpenCamera: %v", err)
	}
	return cam
}

func TestSimCameraParameters(t *testing.T) {
	cam := openSimCamera(t)
	defer cam.Close()

	if name, _ := cam.ManufacturerName(); name != "SVS-VISTEK" {
		t.Errorf("manufacturer = %q", name)
	}
	if model, _ := cam.ModelName(); model != "SIM2048" {
		t.Errorf("model = %q", model)
	}
	if freq, _ := cam.TickFrequency(); freq != simTickFrequency {
		t.Errorf("tick frequency = %d", freq)
	}

	// 8-bit default, one byte per pixel.
	if size, _ := cam.BufferSize(); size != 32*16 {
		t.Errorf("buffer size = %d, want %d", size, 32*16)
	}

	// Depths above 8 bits take two bytes per pixel.
	if err := cam.SetPixelDepth(12); err != nil {
		t.Fatalf("SetPixelDepth: %v", err)
	}
	if size, _ := cam.BufferSize(); size != 32*16*2 {
		t.Errorf("buffer size = %d, want %d", size, 32*16*2)
	}

	if err := cam.SetPixelDepth(24); err == nil {
		t.Error("SetPixelDepth(24) should fail")
	}
}

func TestSimConnectFailureInjection(t *testing.T) {
	drv := NewSimDriver(SimConfig{ConnectStatus: StatusConnectFailed})
	if _, err := drv.OpenCamera(ConnectConfig{DeviceAddr: "192.168.1.50"}); err == nil {
		t.Fatal("expected injected connect failure")
	}
}

func TestSimStreamDeliversFrames(t *testing.T) {
	cam := openSimCamera(t)
	defer cam.Close()

	size, _ := cam.BufferSize()

	var frames atomic.Uint64
	var badSize atomic.Bool
	stream, err := cam.AddStream(StreamConfig{BufferSize: size, BufferCount: 4}, func(ev StreamEvent) {
		if ev.Signal != SignalFrameCompleted {
			return
		}
		if len(ev.Frame.Data) != size {
			badSize.Store(true)
		}
		frames.Add(1)
	})
	if err != nil {
		t.Fatalf("AddStream: %v", err)
	}

	if err := stream.Enable(true); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for frames.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if frames.Load() < 3 {
		t.Fatalf("only %d frames delivered", frames.Load())
	}
	if badSize.Load() {
		t.Error("frame with unexpected size delivered")
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSimStreamNoCallbackAfterClose(t *testing.T) {
	cam := openSimCamera(t)
	defer cam.Close()

	size, _ := cam.BufferSize()

	var mu sync.Mutex
	closed := false
	stream, err := cam.AddStream(StreamConfig{BufferSize: size, BufferCount: 4}, func(ev StreamEvent) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			t.Error("callback fired after Close returned")
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.Enable(true); err != nil {
		t.Fatal(err)
	}

	time.Sleep(20 * time.Millisecond)

	if err := stream.Close(); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	closed = true
	mu.Unlock()

	time.Sleep(20 * time.Millisecond)
}

func TestSimCameraCloseWithOpenStream(t *testing.T) {
	cam := openSimCamera(t)

	size, _ := cam.BufferSize()
	stream, err := cam.AddStream(StreamConfig{BufferSize: size, BufferCount: 4}, func(StreamEvent) {})
	if err != nil {
		t.Fatal(err)
	}

	// The control connection cannot close underneath an open stream.
	if err := cam.Close(); err == nil {
		t.Error("Close with open stream should fail")
	}

	if err := stream.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close after stream closed: %v", err)
	}
}

func TestSimSecondStreamRejected(t *testing.T) {
	cam := openSimCamera(t)
	defer cam.Close()

	size, _ := cam.BufferSize()
	stream, err := cam.AddStream(StreamConfig{BufferSize: size, BufferCount: 4}, func(StreamEvent) {})
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	if _, err := cam.AddStream(StreamConfig{BufferSize: size, BufferCount: 4}, func(StreamEvent) {}); err == nil {
		t.Error("second AddStream should fail")
	}
}
