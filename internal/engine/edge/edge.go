// Package edge implements the hosted voice service engine.
//
// The engine is a thin HTTP client: every synthesis call is one request to
// the hosted service and no session state is held between calls. Failures
// are per-call (network, quota, unsupported voice) and never fatal for the
// run as a whole.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/book-expert/curriculum-audio/internal/core"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
)

// HTTP headers.
const (
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	contentTypeJSON     = "application/json"
	contentTypeMPEG     = "audio/mpeg"
	bearerPrefix        = "Bearer "
)

// EngineName identifies this engine in configuration and logs.
const EngineName = "edge"

// DefaultVoice is used when no voice is specified.
const DefaultVoice = "zh-CN-XiaoxiaoNeural"

// MP3 sample rate delivered by the hosted service.
const hostedSampleRate = 24000

// Error messages.
const (
	errTextCannotBeEmpty     = "text cannot be empty"
	errUnsupportedVoiceMsg   = "unsupported voice"
	errReceivedEmptyAudioMsg = "received empty audio data"
	errFmtUnexpectedType     = "unexpected content type: expected audio/mpeg, got %s"
	errFmtServiceError       = "voice service error (%s): %s (code: %s)"
	errFmtServiceNonOK       = "voice service returned non-OK status: %s, body: %s"
)

// Static errors.
var (
	ErrTextEmpty        = errors.New(errTextCannotBeEmpty)
	ErrUnsupportedVoice = errors.New(errUnsupportedVoiceMsg)
	ErrEmptyAudio       = errors.New(errReceivedEmptyAudioMsg)
)

// supportedVoices is the whitelist of voices the hosted service accepts.
var supportedVoices = map[string]struct{}{
	"zh-CN-XiaoxiaoNeural": {},
	"zh-CN-XiaohanNeural":  {},
	"zh-CN-YunxiNeural":    {},
	"zh-CN-YunjianNeural":  {},
}

// SynthesisRequest defines the JSON payload for a synthesis request.
type SynthesisRequest struct {
	// Text contains the input text to convert to speech. Must be
	// non-empty.
	Text string `json:"text"`

	// Voice selects the hosted neural voice.
	Voice string `json:"voice"`
}

// ErrorResponse represents a structured error response from the service.
type ErrorResponse struct {
	// Detail contains a human-readable error description.
	Detail string `json:"detail"`

	// ErrorCode provides a machine-readable error classification.
	ErrorCode string `json:"error_code,omitempty"`
}

// Engine is the hosted voice service adapter.
type Engine struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

// New creates a hosted voice engine. The baseURL should include protocol
// and port; the timeout applies to every HTTP request.
func New(baseURL, apiToken string, timeout time.Duration) *Engine {
	return &Engine{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return EngineName
}

// DefaultVoice returns the voice used when none is specified.
func (e *Engine) DefaultVoice() string {
	return DefaultVoice
}

// Close is a no-op: the engine holds no session state.
func (e *Engine) Close() error {
	return nil
}

// Synthesize sends one synthesis request and returns the MP3 audio. The
// hosted service encodes to the distribution format itself, so the result
// needs no post-processing.
func (e *Engine) Synthesize(
	ctx context.Context,
	text, voice string,
) (*core.Synthesis, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	if voice == "" {
		voice = DefaultVoice
	}

	if _, ok := supportedVoices[voice]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVoice, voice)
	}

	audioData, err := e.requestAudio(ctx, SynthesisRequest{Text: text, Voice: voice})
	if err != nil {
		return nil, err
	}

	return &core.Synthesis{
		Audio:      audioData,
		SampleRate: hostedSampleRate,
		Format:     core.FormatMP3,
	}, nil
}

func (e *Engine) requestAudio(
	ctx context.Context,
	req SynthesisRequest,
) ([]byte, error) {
	requestBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := e.baseURL + apiSynthesize

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, contentTypeMPEG)

	if e.apiToken != "" {
		httpReq.Header.Set(headerAuthorization, bearerPrefix+e.apiToken)
	}

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to send request to voice service at %s: %w",
			e.baseURL,
			err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != contentTypeMPEG {
		return nil, fmt.Errorf(errFmtUnexpectedType, contentType)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw response body so diagnostics are never
// lost.
func (e *Engine) parseErrorResponse(resp *http.Response) error {
	var errorResp ErrorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil && errorResp.Detail != "" {
		return fmt.Errorf(
			errFmtServiceError,
			resp.Status,
			errorResp.Detail,
			errorResp.ErrorCode,
		)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(errFmtServiceNonOK, resp.Status, string(body))
}
