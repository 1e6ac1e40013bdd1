// Package audio provides lightweight inspection of generated audio data.
package audio

import (
	"bytes"
	"fmt"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// Decoded MP3 output is 16-bit stereo: four bytes per sample frame.
const bytesPerFrame = 4

// MP3Duration decodes the MP3 header chain and returns the playback
// duration. It is used for post-run reporting only; a probe failure is
// informational, never fatal.
func MP3Duration(data []byte) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to decode mp3 data: %w", err)
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return 0, fmt.Errorf("failed to decode mp3 data: invalid sample rate %d", sampleRate)
	}

	frames := decoder.Length() / bytesPerFrame
	seconds := float64(frames) / float64(sampleRate)

	return time.Duration(seconds * float64(time.Second)), nil
}
