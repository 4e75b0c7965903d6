package player

import (
	"errors"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"Play", "play", Play},
		{"Pause Uppercase", "PAUSE", Pause},
		{"Next With Whitespace", "  next ", Next},
		{"Previous Mixed Case", "Previous", Previous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	for _, input := range []string{"", "stop", "shuffle", "play next"} {
		t.Run("Unknown "+input, func(t *testing.T) {
			_, err := ParseCommand(input)
			if !errors.Is(err, ErrUnknownCommand) {
				t.Errorf("expected ErrUnknownCommand for %q, got %v", input, err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		text string
		want Command
	}{
		{"please pause the music", Pause},
		{"play", Play},
		{"Next track please", Next},
		{"go back to the previous one", Previous},
		{"play next song", Play},
		{"pause and skip to next", Pause},
		{"replay", Play},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Resolve(tt.text)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}

	t.Run("Unrecognized", func(t *testing.T) {
		_, err := Resolve("turn up the volume")
		if !errors.Is(err, ErrUnrecognizedPhrase) {
			t.Errorf("expected ErrUnrecognizedPhrase, got %v", err)
		}
		if errors.Is(err, ErrUnknownCommand) {
			t.Error("expected kinds to differ")
		}
	})
}

func TestCommandOrder(t *testing.T) {
	want := []Command{Play, Pause, Next, Previous}
	if len(Commands) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(Commands))
	}
	for i, cmd := range want {
		if Commands[i] != cmd {
			t.Errorf("Commands[%d] = %s, want %s", i, Commands[i], cmd)
		}
	}
}
