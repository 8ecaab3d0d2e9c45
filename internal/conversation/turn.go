package conversation

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

var ErrInvalidTurn = errors.New("invalid turn")

// ActionCall is the model's request to run one of the order actions.
// Arguments is kept exactly as the model produced it.
type ActionCall struct {
	ID        string
	Name      string
	Arguments string
}

type Turn struct {
	Role    Role
	Content string

	// Name tags function turns with the action that produced them.
	Name string

	// Call is set on the assistant turn that asked for an action.
	Call *ActionCall

	// CallID links a function turn back to the call it answers.
	CallID string
}

func SystemTurn(content string) Turn    { return Turn{Role: RoleSystem, Content: content} }
func UserTurn(content string) Turn      { return Turn{Role: RoleUser, Content: content} }
func AssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

func FunctionTurn(name, callID, content string) Turn {
	return Turn{Role: RoleFunction, Name: name, CallID: callID, Content: content}
}

func (t Turn) Validate() error {
	switch t.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		if t.Name != "" {
			return fmt.Errorf("%w: %s turn tagged with function %q", ErrInvalidTurn, t.Role, t.Name)
		}
	case RoleFunction:
		if t.Name == "" {
			return fmt.Errorf("%w: function turn without a name", ErrInvalidTurn)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidTurn, t.Role)
	}

	if t.Call != nil && t.Role != RoleAssistant {
		return fmt.Errorf("%w: action call on %s turn", ErrInvalidTurn, t.Role)
	}

	return nil
}

// Store is the session's ordered log of turns. It only grows; earlier
// turns are never rewritten.
type Store struct {
	turns []Turn
}

func NewStore(system string) *Store {
	return &Store{turns: []Turn{SystemTurn(system)}}
}

func (s *Store) Append(t Turn) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if t.Call != nil {
		c := *t.Call
		t.Call = &c
	}

	s.turns = append(s.turns, t)
	return nil
}

func (s *Store) Len() int { return len(s.turns) }

// Turns returns a copy of the log.
func (s *Store) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	for i := range out {
		if out[i].Call != nil {
			c := *out[i].Call
			out[i].Call = &c
		}
	}
	return out
}
