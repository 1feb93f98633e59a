package recording

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kvasny/stampcam/ccc/logging"
	"gocv.io/x/gocv"
)

// codecToFourCC maps the profile codec name to the four-character code
// gocv's video writer expects.
func codecToFourCC(codec string) string {
	switch strings.ToLower(codec) {
	case "h264", "avc":
		return "avc1"
	case "mjpg", "mjpeg":
		return "MJPG"
	default:
		return "mp4v"
	}
}

// frameSource and frameSink abstract the gocv capture handles so the
// capture loop can be exercised without camera hardware.
type frameSource interface {
	Read(img *gocv.Mat) bool
	Close() error
}

type frameSink interface {
	Write(img gocv.Mat) error
	Close() error
}

// GoCVDevice captures video from a local webcam. It implements
// CaptureDevice with single-capture semantics: one StartCapture runs
// until StopCapture is requested, then the finished file is reported
// through the callbacks.
type GoCVDevice struct {
	logger    logging.Logger
	device    string // device identifier, e.g. "/dev/video0" or "0" for default camera
	outputDir string

	mu        sync.Mutex
	capturing bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewGoCVDevice(logger logging.Logger, device string, outputDir string) *GoCVDevice {
	if logger == nil {
		logger = logging.NopLogger
	}

	return &GoCVDevice{
		logger:    logger,
		device:    device,
		outputDir: outputDir,
	}
}

func (d *GoCVDevice) StartCapture(ctx context.Context, params CaptureParams, onFinished FinishedCallback, onError ErrorCallback) error {
	d.mu.Lock()
	if d.capturing {
		d.mu.Unlock()
		return NewStartFailedError("capture already in progress")
	}
	d.capturing = true
	d.stopCh = make(chan struct{})
	stopCh := d.stopCh
	d.mu.Unlock()

	// Parse device ID
	deviceID := 0
	if d.device != "" && d.device != "0" {
		if id, err := strconv.Atoi(d.device); err == nil {
			deviceID = id
		}
	}

	webcam, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		d.release()
		if strings.Contains(strings.ToLower(err.Error()), "permission") {
			return NewPermissionDeniedError(err.Error())
		}
		return NewDeviceUnavailableError(err.Error())
	}

	// Ask the camera for the target resolution; it may deliver less.
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(params.Width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(params.Height))

	width := int(webcam.Get(gocv.VideoCaptureFrameWidth))
	height := int(webcam.Get(gocv.VideoCaptureFrameHeight))
	if width <= 0 || height <= 0 {
		width = params.Width
		height = params.Height
	}

	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		webcam.Close()
		d.release()
		return NewStartFailedError(fmt.Sprintf("failed to create output directory: %v", err))
	}

	outPath := filepath.Join(d.outputDir,
		fmt.Sprintf("capture_%d.%s", time.Now().Unix(), params.Container))

	writer, err := gocv.VideoWriterFile(outPath, codecToFourCC(params.Codec), params.FrameRate, width, height, true)
	if err != nil {
		webcam.Close()
		d.release()
		return NewStartFailedError(fmt.Sprintf("failed to create video writer: %v", err))
	}

	d.logger.Info("capture started", "device", d.device, "path", outPath,
		"width", width, "height", height, "fps", params.FrameRate)

	// The goroutine owns the webcam and writer from here on.
	d.wg.Add(1)
	go d.captureLoop(webcam, writer, stopCh, outPath, width, height, params, onFinished, onError)

	return nil
}

func (d *GoCVDevice) captureLoop(webcam frameSource, writer frameSink, stopCh chan struct{}, outPath string, width, height int, params CaptureParams, onFinished FinishedCallback, onError ErrorCallback) {
	defer d.wg.Done()

	img := gocv.NewMat()
	defer img.Close()

	startTime := time.Now()
	frameCount := 0

	frameInterval := time.Duration(float64(time.Second) / params.FrameRate)
	nextFrameTime := startTime

	for {
		select {
		case <-stopCh:
			duration := time.Since(startTime)

			// The mp4 index is only written when the writer closes;
			// finalize the file and free the device before anyone is
			// told about the recording.
			if err := writer.Close(); err != nil {
				d.logger.Warn("failed to finalize video file", "path", outPath, "error", err)
			}
			webcam.Close()
			d.release()

			d.logger.Info("capture stopped", "path", outPath, "frames", frameCount, "duration", duration)

			if frameCount <= 0 {
				onError(NewStopFailedError("no frames were recorded from webcam"))
				return
			}

			onFinished(RawRecording{
				Path:      outPath,
				Width:     width,
				Height:    height,
				Duration:  duration,
				StartedAt: startTime.UTC(),
			})
			return
		default:
		}

		// Pace frame reads to hold the requested frame rate.
		now := time.Now()
		if now.Before(nextFrameTime) {
			time.Sleep(nextFrameTime.Sub(now))
		}

		if ok := webcam.Read(&img); !ok {
			d.logger.Warn("failed to read frame from webcam", "frame", frameCount)
			time.Sleep(time.Millisecond * 67)
			continue
		}

		if img.Empty() {
			continue
		}

		if err := writer.Write(img); err != nil {
			d.logger.Warn("failed to write frame", "frame", frameCount, "error", err)
		}
		frameCount++

		nextFrameTime = nextFrameTime.Add(frameInterval)
	}
}

func (d *GoCVDevice) StopCapture(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.capturing {
		return NewStopFailedError("no capture in progress")
	}

	select {
	case <-d.stopCh:
		// already requested
	default:
		close(d.stopCh)
	}
	return nil
}

// Wait blocks until every capture goroutine, including its completion
// callbacks, has returned. Used on shutdown so the final recording is
// persisted before the process exits.
func (d *GoCVDevice) Wait() {
	d.wg.Wait()
}

func (d *GoCVDevice) release() {
	d.mu.Lock()
	d.capturing = false
	d.mu.Unlock()
}
