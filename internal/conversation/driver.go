package conversation

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"drivethru/internal/order"
)

// Completion is one reply from the chat model: either plain text or a
// request to run an action.
type Completion struct {
	Content string
	Call    *ActionCall
}

// Model is the hosted chat model. A nil catalogue means no actions are
// offered for that call.
type Model interface {
	Complete(ctx context.Context, turns []Turn, catalogue []order.Definition) (Completion, error)
}

// Invoker runs an order action.
type Invoker interface {
	Invoke(ctx context.Context, k order.Kind, args order.Args) (order.Outcome, error)
}

type Result struct {
	Reply    Turn
	Continue bool
}

type Driver struct {
	model   Model
	actions Invoker
}

func NewDriver(model Model, actions Invoker) *Driver {
	return &Driver{model: model, actions: actions}
}

// Step runs one driving step against store and appends what the step
// produced. On end_order nothing is appended and Continue is false.
func (d *Driver) Step(ctx context.Context, store *Store) (Result, error) {
	if store == nil || store.Len() == 0 {
		return Result{}, errors.New("empty conversation")
	}

	first, err := d.model.Complete(ctx, store.Turns(), order.Catalogue())
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}

	if first.Call == nil {
		reply := AssistantTurn(first.Content)
		if err := store.Append(reply); err != nil {
			return Result{}, err
		}
		return Result{Reply: reply, Continue: true}, nil
	}

	call := *first.Call
	log.Info("Function called", "name", call.Name)

	kind, err := order.ParseKind(call.Name)
	if err != nil {
		return Result{}, err
	}

	args, err := order.DecodeArgs(kind, call.Arguments)
	if err != nil {
		return Result{}, err
	}

	out, err := d.actions.Invoke(ctx, kind, args)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", kind, err)
	}

	if out.End {
		return Result{Reply: AssistantTurn(out.Result), Continue: false}, nil
	}

	invocation := Turn{Role: RoleAssistant, Content: first.Content, Call: &call}
	if err := store.Append(invocation); err != nil {
		return Result{}, err
	}
	if err := store.Append(FunctionTurn(kind.String(), call.ID, out.Result)); err != nil {
		return Result{}, err
	}

	log.Debug("Function result appended", "name", kind.String())

	// One action per step: the follow-up call gets no catalogue.
	second, err := d.model.Complete(ctx, store.Turns(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("follow-up completion: %w", err)
	}

	reply := AssistantTurn(second.Content)
	if err := store.Append(reply); err != nil {
		return Result{}, err
	}

	return Result{Reply: reply, Continue: true}, nil
}
