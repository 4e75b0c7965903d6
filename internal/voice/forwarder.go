package voice

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotctl/internal/shared"
)

// DefaultServerURL is where `spotctl serve` listens by default.
const DefaultServerURL = "http://localhost:8080"

// ControlPath is the server endpoint that accepts free-form commands.
const ControlPath = "/voice_control"

// request is the body posted to [ControlPath].
type request struct {
	Command string `json:"command"`
}

// Reply is the server's answer to a forwarded transcript.
type Reply struct {
	StatusCode int    `json:"-"`
	Status     string `json:"status"`
	Command    string `json:"command,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	AuthURL    string `json:"auth_url,omitempty"`
}

// OK reports whether the server accepted the command.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Forwarder posts transcripts to a spotctl server.
type Forwarder struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewForwarder creates a Forwarder for the server at baseURL.
func NewForwarder(baseURL string, client *http.Client, logger *log.Logger) *Forwarder {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Forwarder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// Forward posts text and decodes the reply. Only transport and decoding failures are returned as errors; a
// refusal by the server is reported through the reply's status.
func (f *Forwarder) Forward(ctx context.Context, text string) (*Reply, error) {
	payload, err := json.Marshal(request{Command: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+ControlPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	reply := &Reply{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, reply); err != nil {
		reply.Message = strings.TrimSpace(string(body))
	}

	return reply, nil
}

// Run forwards each non-blank line read from r until EOF or ctx is cancelled.
//
// Failures for individual transcripts are logged and do not stop the loop. A read error on r is returned.
// On cancellation r is closed if it is an [io.Closer], which releases the pending read.
func (f *Forwarder) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	forwarded := 0
	for {
		select {
		case <-ctx.Done():
			if c, ok := r.(io.Closer); ok {
				if err := c.Close(); err != nil {
					f.logger.Debug("failed to close transcript stream", "error", err)
				}
			}
			f.logger.Info("voice forwarding stopped", "forwarded", forwarded)
			return nil
		case line, ok := <-lines:
			if !ok {
				f.logger.Info("transcript stream closed", "forwarded", forwarded)
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read transcripts: %w", err)
					}
				default:
				}
				return nil
			}

			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			forwarded++
			f.handle(ctx, text)
		}
	}
}

func (f *Forwarder) handle(ctx context.Context, text string) {
	reply, err := f.Forward(ctx, text)
	switch {
	case err != nil:
		f.logger.Error("failed to forward transcript", "text", text, "error", err)
	case reply.OK():
		f.logger.Info("command sent", "text", text, "command", reply.Command)
	case reply.AuthURL != "":
		f.logger.Warn("server needs authorization", "text", text, "auth_url", reply.AuthURL)
	default:
		f.logger.Warn("command refused", "text", text, "status", reply.StatusCode, "message", firstNonEmpty(reply.Message, reply.Error))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
