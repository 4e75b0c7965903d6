package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spotctl/internal/credentials"
	"github.com/desertthunder/spotctl/internal/shared"
	tu "github.com/desertthunder/spotctl/internal/testing"
)

// playerAPI records player requests and answers with status.
type playerAPI struct {
	mu     sync.Mutex
	paths  []string
	status int
}

func (p *playerAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.paths = append(p.paths, r.Method+" "+r.URL.Path)
	p.mu.Unlock()

	if p.status >= 400 {
		w.WriteHeader(p.status)
		w.Write([]byte(`{"error":{"status":404,"message":"Player command failed: No active device found"}}`))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// testConfig returns a valid config rooted in a temp dir, pointing the player at baseURL.
func testConfig(t *testing.T, baseURL string) *shared.Config {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Credentials.Spotify = shared.SpotifyConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		RedirectURI:  "http://127.0.0.1:8888/callback",
	}
	config.Storage.Path = filepath.Join(dir, "token.json")
	config.Database.Path = filepath.Join(dir, "history.db")
	config.Player.BaseURL = baseURL
	return config
}

// storeToken persists a token valid for an hour so no refresh happens.
func storeToken(t *testing.T, config *shared.Config) {
	t.Helper()

	store, err := credentials.NewFileStore(config.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	record := credentials.NewTokenRecord("A1", "R1", 3600, time.Now())
	if err := store.Save(context.Background(), record); err != nil {
		t.Fatal(err)
	}
}

func newTestRunner(config *shared.Config, output *bytes.Buffer) *Runner {
	return NewRunner(RunnerOpts{
		Config: config,
		Logger: tu.NewTestLogger(nil),
		Output: output,
		OpenBrowser: func(string) error {
			return errors.New("no browser in tests")
		},
	})
}

func run(r *Runner, args ...string) error {
	return r.app().Run(context.Background(), append([]string{"spotctl"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil dependencies uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to stdin")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected default http client")
			}
			if runner.openBrowser == nil {
				t.Error("expected browser opener")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"command": "play"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "{\n  \"command\": \"play\"\n}\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(map[string]any{"ch": make(chan int)}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"a": "b"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("✓ %s (%d)\n", "next", 204); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "✓ next (204)\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("x"); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		names := []string{}
		for _, cmd := range runner.register() {
			names = append(names, cmd.Name)
		}

		want := "setup,serve,auth,player,voice,history,remote"
		if strings.Join(names, ",") != want {
			t.Errorf("expected %s, got %v", want, names)
		}
	})

	t.Run("store", func(t *testing.T) {
		t.Run("file backend", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t, "http://unused")})

			store, err := runner.store()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := store.(*credentials.FileStore); !ok {
				t.Errorf("expected *credentials.FileStore, got %T", store)
			}
		})

		t.Run("unknown backend", func(t *testing.T) {
			config := testConfig(t, "http://unused")
			config.Storage.Backend = "vault"
			runner := NewRunner(RunnerOpts{Config: config})

			if _, err := runner.store(); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestPlayerCommand(t *testing.T) {
	t.Run("Dispatches And Records History", func(t *testing.T) {
		api := &playerAPI{}
		upstream := httptest.NewServer(api)
		defer upstream.Close()

		config := testConfig(t, upstream.URL)
		storeToken(t, config)

		output := &bytes.Buffer{}
		runner := newTestRunner(config, output)

		if err := run(runner, "player", "next"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "✓ next (204)\n" {
			t.Errorf("unexpected output %q", output.String())
		}
		if len(api.paths) != 1 || api.paths[0] != "POST /next" {
			t.Errorf("unexpected upstream requests %v", api.paths)
		}

		output.Reset()
		if err := run(runner, "history", "--json"); err != nil {
			t.Fatalf("history failed: %v", err)
		}

		var entries []map[string]any
		if err := json.Unmarshal(output.Bytes(), &entries); err != nil {
			t.Fatalf("invalid JSON %q: %v", output.String(), err)
		}
		if len(entries) != 1 || entries[0]["command"] != "next" || entries[0]["source"] != "cli" {
			t.Errorf("unexpected history %v", entries)
		}
	})

	t.Run("Rejected Upstream", func(t *testing.T) {
		upstream := httptest.NewServer(&playerAPI{status: http.StatusNotFound})
		defer upstream.Close()

		config := testConfig(t, upstream.URL)
		storeToken(t, config)

		err := run(newTestRunner(config, &bytes.Buffer{}), "player", "play")
		if err == nil || !strings.Contains(err.Error(), "No active device found") {
			t.Errorf("expected upstream reason, got %v", err)
		}
	})

	t.Run("Not Authorized", func(t *testing.T) {
		api := &playerAPI{}
		upstream := httptest.NewServer(api)
		defer upstream.Close()

		err := run(newTestRunner(testConfig(t, upstream.URL), &bytes.Buffer{}), "player", "pause")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(api.paths) != 0 {
			t.Errorf("expected no upstream requests, got %v", api.paths)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		config := testConfig(t, "http://unused")
		config.Credentials.Spotify.ClientSecret = ""

		err := run(newTestRunner(config, &bytes.Buffer{}), "player", "play")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("History Disabled", func(t *testing.T) {
		upstream := httptest.NewServer(&playerAPI{})
		defer upstream.Close()

		config := testConfig(t, upstream.URL)
		config.Database.Path = ""
		storeToken(t, config)

		runner := newTestRunner(config, &bytes.Buffer{})
		if err := run(runner, "player", "play"); err != nil {
			t.Fatalf("expected dispatch without history, got %v", err)
		}
		if err := run(runner, "history"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	upstream := httptest.NewServer(&playerAPI{})
	defer upstream.Close()

	config := testConfig(t, upstream.URL)
	storeToken(t, config)

	output := &bytes.Buffer{}
	runner := newTestRunner(config, output)

	for _, c := range []string{"play", "next", "play"} {
		if err := run(runner, "player", c); err != nil {
			t.Fatalf("player %s failed: %v", c, err)
		}
	}

	t.Run("CSV With Filter", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "history", "--format", "csv", "--command", "play"); err != nil {
			t.Fatalf("history failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %q", output.String())
		}
	})

	t.Run("Limit", func(t *testing.T) {
		output.Reset()
		if err := run(runner, "history", "--limit", "1"); err != nil {
			t.Fatalf("history failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 1 || !strings.Contains(lines[0], "play") {
			t.Errorf("expected newest entry only, got %q", output.String())
		}
	})

	t.Run("Export To File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.md")
		if err := run(runner, "history", "--output", path); err != nil {
			t.Fatalf("history failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if !strings.HasPrefix(tu.MustReadFile(t, path), "# Command History") {
			t.Error("expected Markdown inferred from extension")
		}
	})

	t.Run("Invalid Source", func(t *testing.T) {
		if err := run(runner, "history", "--source", "radio"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Status Without Token", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := run(newTestRunner(testConfig(t, "http://unused"), output), "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Status JSON Hides Tokens", func(t *testing.T) {
		config := testConfig(t, "http://unused")
		storeToken(t, config)

		output := &bytes.Buffer{}
		if err := run(newTestRunner(config, output), "auth", "status", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var status map[string]any
		if err := json.Unmarshal(output.Bytes(), &status); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if status["authenticated"] != true || status["needs_refresh"] != false {
			t.Errorf("unexpected status %v", status)
		}
		if strings.Contains(output.String(), "A1") || strings.Contains(output.String(), "R1") {
			t.Error("expected token values to be hidden")
		}
	})

	t.Run("Status Without Credentials", func(t *testing.T) {
		config := testConfig(t, "http://unused")
		config.Credentials.Spotify = shared.SpotifyConfig{}
		storeToken(t, config)

		output := &bytes.Buffer{}
		if err := run(newTestRunner(config, output), "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Authenticated") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Login Requires Credentials", func(t *testing.T) {
		config := testConfig(t, "http://unused")
		config.Credentials.Spotify.ClientID = ""

		err := run(newTestRunner(config, &bytes.Buffer{}), "auth", "login", "--no-browser")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Login Times Out", func(t *testing.T) {
		config := testConfig(t, "http://unused")
		config.Credentials.Spotify.RedirectURI = "http://127.0.0.1:0/callback"

		output := &bytes.Buffer{}
		err := run(newTestRunner(config, output), "auth", "login", "--timeout", "50ms")
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if !strings.Contains(output.String(), "accounts.spotify.com/authorize") {
			t.Errorf("expected authorization URL fallback, got %q", output.String())
		}
	})
}

func TestVoiceCommand(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Command string `json:"command"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		got = append(got, body.Command)

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(body.Command, "weather") {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"error","error":"unrecognized phrase"}`))
			return
		}
		w.Write([]byte(`{"status":"ok","command":"next"}`))
	}))
	defer srv.Close()

	t.Run("Arguments", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := newTestRunner(shared.DefaultConfig(), output)

		if err := run(runner, "voice", "--server", srv.URL, "skip", "to", "next"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "✓ next\n" {
			t.Errorf("unexpected output %q", output.String())
		}
		if got[len(got)-1] != "skip to next" {
			t.Errorf("expected joined phrase, got %q", got[len(got)-1])
		}
	})

	t.Run("Rejected Phrase", func(t *testing.T) {
		runner := newTestRunner(shared.DefaultConfig(), &bytes.Buffer{})

		err := run(runner, "voice", "--server", srv.URL, "what's the weather")
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "unrecognized phrase") {
			t.Errorf("expected rejection, got %v", err)
		}
	})

	t.Run("Stdin", func(t *testing.T) {
		got = nil
		runner := NewRunner(RunnerOpts{
			Config: shared.DefaultConfig(),
			Logger: tu.NewTestLogger(nil),
			Input:  strings.NewReader("play\n\nnext please\n"),
			Output: &bytes.Buffer{},
		})

		if err := run(runner, "voice", "--server", srv.URL); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Join(got, "|") != "play|next please" {
			t.Errorf("unexpected forwarded lines %v", got)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Logger: tu.NewTestLogger(nil), Output: output})

	configPath := filepath.Join(dir, "config.toml")
	if err := run(runner, "--config", configPath, "setup"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, configPath)
	tu.AssertFileExists(t, filepath.Join(dir, "spotctl.db"))
	if !strings.Contains(output.String(), "Database ready") {
		t.Errorf("unexpected output %q", output.String())
	}

	output.Reset()
	if err := run(runner, "--config", configPath, "setup"); err != nil {
		t.Fatalf("second setup failed: %v", err)
	}
	if strings.Contains(output.String(), "Config written") {
		t.Error("expected existing config to be kept")
	}
}
