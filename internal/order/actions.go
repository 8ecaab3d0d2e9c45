package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
)

const (
	PlacingPhrase = "I am placing your order right now"
	ClosingPhrase = "Thank you, please pull forward to the first window"
)

// Speaker says a line out loud and returns once it has finished playing.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Ticketer receives every placed order. The kitchen display feed implements it.
type Ticketer interface {
	Send(ctx context.Context, order json.RawMessage) error
}

// Outcome is what an invoked action hands back to the driver.
type Outcome struct {
	Result string
	End    bool
}

type Actions struct {
	speaker Speaker
	tickets Ticketer
}

// NewActions builds the action set. tickets may be nil.
func NewActions(speaker Speaker, tickets Ticketer) *Actions {
	return &Actions{speaker: speaker, tickets: tickets}
}

func (a *Actions) Invoke(ctx context.Context, k Kind, args Args) (Outcome, error) {
	switch k {
	case KindPlaceOrder:
		res, err := a.Place(ctx, args.Order)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Result: res}, nil
	case KindEndOrder:
		if err := a.End(ctx); err != nil {
			return Outcome{}, err
		}
		return Outcome{Result: ClosingPhrase, End: true}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, k)
	}
}

// Place serializes the order, tells the customer it is being placed and
// returns the serialized order as the action result.
func (a *Actions) Place(ctx context.Context, order json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, order, "", "  "); err != nil {
		return "", fmt.Errorf("%w: serialize order: %v", ErrInvalidArgs, err)
	}
	text := buf.String()

	log.Info("Placing order", "order", text)

	if err := a.speaker.Say(ctx, PlacingPhrase); err != nil {
		return "", fmt.Errorf("announce order: %w", err)
	}

	if a.tickets != nil {
		if err := a.tickets.Send(ctx, json.RawMessage(buf.Bytes())); err != nil {
			return "", fmt.Errorf("send ticket: %w", err)
		}
	}

	return text, nil
}

// End says the closing line. The caller must stop the session afterwards.
func (a *Actions) End(ctx context.Context) error {
	log.Info("Ending order")

	if err := a.speaker.Say(ctx, ClosingPhrase); err != nil {
		return fmt.Errorf("say goodbye: %w", err)
	}

	return nil
}
