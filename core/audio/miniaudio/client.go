// Package miniaudio captures microphone audio through malgo for one clip at
// a time: start, speak, stop, take the buffered PCM.
package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/barista-core/core/audio"
)

type Recorder struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	buffer []byte

	mu sync.Mutex
}

func NewRecorder() (*Recorder, error) {
	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	return &Recorder{audioContext: audioContext}, nil
}

func (r *Recorder) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

// Start opens the default capture device and begins buffering PCM.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		return nil
	}

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	r.config = malgo.DefaultDeviceConfig(malgo.Capture)
	r.config.SampleRate = sampleRate
	r.config.Capture.Format = format
	r.config.Capture.Channels = uint32(channels)
	r.config.Alsa.NoMMap = 1
	r.config.PerformanceProfile = malgo.LowLatency
	r.config.PeriodSizeInFrames = 480
	r.config.Periods = 3

	r.buffer = r.buffer[:0]

	device, err := malgo.InitDevice(r.audioContext.Context, r.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}

			r.mu.Lock()
			r.buffer = append(r.buffer, pInput[:n]...)
			r.mu.Unlock()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	r.device = device
	return nil
}

// Stop closes the capture device and returns the PCM recorded since Start.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	device := r.device
	r.device = nil
	r.mu.Unlock()

	if device == nil {
		return nil, fmt.Errorf("recorder not started")
	}

	if err := device.Stop(); err != nil {
		device.Uninit()
		return nil, fmt.Errorf("failed to stop capture device: %w", err)
	}
	device.Uninit()

	r.mu.Lock()
	defer r.mu.Unlock()
	pcm := append([]byte(nil), r.buffer...)
	r.buffer = r.buffer[:0]
	return pcm, nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}
	if r.audioContext != nil {
		if err := r.audioContext.Uninit(); err != nil {
			return fmt.Errorf("failed to uninitialize audio context: %w", err)
		}
		r.audioContext.Free()
		r.audioContext = nil
	}
	return nil
}
