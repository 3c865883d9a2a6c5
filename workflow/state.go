package workflow

import "fmt"

// State is the lifecycle position of an operation.
type State int

const (
	Idle State = iota
	Loading
	Done
	Failed
)

var stateNames = [...]string{"idle", "loading", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether s ends an operation.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Kind names what an operation does.
type Kind string

const (
	KindExtract  Kind = "extract"
	KindOrganize Kind = "organize"
	KindCompress Kind = "compress"
)

// FailureMessage is the only text shown to users when an operation of kind k
// fails. Underlying causes are logged, never displayed.
func FailureMessage(k Kind) string {
	switch k {
	case KindExtract:
		return "Failed to extract ZIP file."
	case KindOrganize:
		return "Failed to organize ZIP file."
	case KindCompress:
		return "Failed to compress files."
	}
	return "Operation failed."
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindExtract, KindOrganize, KindCompress:
		return k, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
}
