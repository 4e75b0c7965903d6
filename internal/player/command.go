package player

import (
	"net/http"
	"strings"
)

// Command is a playback action understood by the player API.
type Command string

const (
	Play     Command = "play"
	Pause    Command = "pause"
	Next     Command = "next"
	Previous Command = "previous"
)

// Commands lists the closed command set in keyword resolution order.
var Commands = []Command{Play, Pause, Next, Previous}

// route is the HTTP method and path suffix for a command.
type route struct {
	method string
	path   string
}

var routes = map[Command]route{
	Play:     {http.MethodPut, "play"},
	Pause:    {http.MethodPut, "pause"},
	Next:     {http.MethodPost, "next"},
	Previous: {http.MethodPost, "previous"},
}

// Valid reports whether c is one of the known commands.
func (c Command) Valid() bool {
	_, ok := routes[c]
	return ok
}

func (c Command) String() string {
	return string(c)
}

// ParseCommand parses s, ignoring case and surrounding whitespace.
func ParseCommand(s string) (Command, error) {
	cmd := Command(strings.ToLower(strings.TrimSpace(s)))
	if !cmd.Valid() {
		return "", &DispatchError{Kind: UnknownCommand, Command: s}
	}
	return cmd, nil
}

// Resolve maps transcribed speech to a command.
//
// The text is lowercased and checked for each keyword of [Commands] in order; the first keyword contained anywhere
// in the text wins. Order is part of the contract: "play next song" is [Play], not [Next].
func Resolve(text string) (Command, error) {
	lower := strings.ToLower(text)
	for _, cmd := range Commands {
		if strings.Contains(lower, string(cmd)) {
			return cmd, nil
		}
	}
	return "", &DispatchError{Kind: UnrecognizedPhrase, Command: text}
}
