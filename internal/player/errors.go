package player

import "fmt"

// Kind classifies a [DispatchError].
type Kind int

const (
	// UnknownCommand means the command is outside the closed set. No request was made.
	UnknownCommand Kind = iota + 1
	// Rejected means the provider answered with a status other than 200 or 204.
	Rejected
	// UnrecognizedPhrase means no keyword matched the transcribed text.
	UnrecognizedPhrase
)

func (k Kind) String() string {
	switch k {
	case UnknownCommand:
		return "unknown command"
	case Rejected:
		return "rejected"
	case UnrecognizedPhrase:
		return "unrecognized phrase"
	default:
		return "unknown"
	}
}

// Sentinels for matching with [errors.Is].
var (
	ErrUnknownCommand     = &DispatchError{Kind: UnknownCommand}
	ErrRejected           = &DispatchError{Kind: Rejected}
	ErrUnrecognizedPhrase = &DispatchError{Kind: UnrecognizedPhrase}
)

// DispatchError describes a failed command resolution or dispatch.
type DispatchError struct {
	Kind    Kind
	Command string
	Status  int
	Reason  string
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case Rejected:
		if e.Reason != "" {
			return fmt.Sprintf("%s rejected with status %d: %s", e.Command, e.Status, e.Reason)
		}
		return fmt.Sprintf("%s rejected with status %d", e.Command, e.Status)
	case UnknownCommand, UnrecognizedPhrase:
		if e.Command != "" {
			return fmt.Sprintf("%s: %q", e.Kind, e.Command)
		}
	}
	return e.Kind.String()
}

// Is matches any DispatchError of the same kind.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*DispatchError)
	return ok && t.Kind == e.Kind
}
