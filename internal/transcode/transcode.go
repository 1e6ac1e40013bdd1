// Package transcode encodes native engine output to the distribution
// format using an external transcoding tool.
//
// The tool being absent is not an error: the pipeline then delivers the
// native format under the expected filename extension. Downstream
// consumers are lenient about the mismatch, but the fallback is a degraded
// mode and must be visible in logs.
package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// The external transcoding tool.
const (
	ffmpegBinary = "ffmpeg"
)

// MP3 encoding parameters.
const (
	mp3Bitrate = "48k"
)

// ErrEncoderUnavailable indicates that the transcoding tool is not
// installed. Callers should fall back to delivering the native format.
var ErrEncoderUnavailable = errors.New("transcoding tool not available")

// Encoder transcodes raw WAV audio to MP3 via ffmpeg.
type Encoder struct {
	binaryPath string
}

// New creates an encoder, probing for the transcoding tool once. When the
// tool is missing the encoder is still returned, but Available reports
// false and ToMP3 fails with ErrEncoderUnavailable.
func New() *Encoder {
	binaryPath, err := exec.LookPath(ffmpegBinary)
	if err != nil {
		binaryPath = ""
	}

	return &Encoder{binaryPath: binaryPath}
}

// NewWithBinary creates an encoder that uses a specific tool path. An
// empty path models the tool being absent. Primarily for testing.
func NewWithBinary(binaryPath string) *Encoder {
	return &Encoder{binaryPath: binaryPath}
}

// Available reports whether the transcoding tool was found.
func (e *Encoder) Available() bool {
	return e.binaryPath != ""
}

// ToMP3 encodes WAV data at the given sample rate to MP3. The audio is
// streamed through the tool's stdin and stdout; nothing touches the
// filesystem.
func (e *Encoder) ToMP3(ctx context.Context, wav []byte, sampleRate int) ([]byte, error) {
	if !e.Available() {
		return nil, ErrEncoderUnavailable
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "wav",
		"-ar", strconv.Itoa(sampleRate),
		"-i", "pipe:0",
		"-b:a", mp3Bitrate,
		"-f", "mp3",
		"pipe:1",
	}

	// #nosec G204 -- binary path is resolved via LookPath, args are fixed flags
	cmd := exec.CommandContext(ctx, e.binaryPath, args...)
	cmd.Stdin = bytes.NewReader(wav)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf(
			"transcoding failed: %w - output: %s",
			err,
			stderr.String(),
		)
	}

	return stdout.Bytes(), nil
}
