package player

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/spotctl/internal/shared"
)

// DefaultBaseURL is the Spotify player-control API.
const DefaultBaseURL = "https://api.spotify.com/v1/me/player"

// Ack confirms a command the provider accepted.
type Ack struct {
	Command Command `json:"command"`
	Status  int     `json:"status"`
}

// Dispatcher sends playback commands to the player API.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewDispatcher creates a Dispatcher for baseURL. An empty baseURL selects [DefaultBaseURL]; a nil client selects
// [http.DefaultClient].
func NewDispatcher(baseURL string, client *http.Client) *Dispatcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Dispatcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Execute issues cmd with the given access token. It makes exactly one request and never retries.
//
// Transport failures are wrapped with [shared.ErrAPIRequest]; provider refusals are [Rejected] errors.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command, accessToken string) (Ack, error) {
	rt, ok := routes[cmd]
	if !ok {
		return Ack{}, &DispatchError{Kind: UnknownCommand, Command: string(cmd)}
	}

	req, err := http.NewRequestWithContext(ctx, rt.method, d.baseURL+"/"+rt.path, nil)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Ack{}, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, cmd, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		return Ack{Command: cmd, Status: resp.StatusCode}, nil
	}

	body, _ := io.ReadAll(resp.Body)
	return Ack{}, &DispatchError{
		Kind:    Rejected,
		Command: string(cmd),
		Status:  resp.StatusCode,
		Reason:  reason(body),
	}
}

// errorBody is the Web API error envelope.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// reason extracts error.message from a provider error body, falling back to the raw body.
func reason(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return eb.Error.Message
	}
	return strings.TrimSpace(string(body))
}
