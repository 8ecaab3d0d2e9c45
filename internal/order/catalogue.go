package order

import (
	"errors"
	"fmt"
)

// Kind is one of the two actions the model may invoke.
type Kind int

const (
	KindPlaceOrder Kind = iota + 1
	KindEndOrder
)

var ErrUnknownAction = errors.New("unknown action")

func (k Kind) String() string {
	switch k {
	case KindPlaceOrder:
		return "place_order"
	case KindEndOrder:
		return "end_order"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps the name reported by the model onto a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "place_order":
		return KindPlaceOrder, nil
	case "end_order":
		return KindEndOrder, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// Definition describes an action to the model.
type Definition struct {
	Kind        Kind
	Name        string
	Description string
	Parameters  map[string]any
}

const orderShape = `The order as JSON. Include the customer's vehicle and every item with its name, quantity, size and customizations, for example:
{
  "customer vehicle": "Toyota Camry",
  "items": [
    {"Item Name": "Big Mac", "Quantity": 1, "customizations": ["No Pickles"]},
    {"Item Name": "Fries", "Quantity": 1, "size": "Large", "customizations": ["Lots of salt"]}
  ]
}`

// Catalogue returns the actions offered to the model on every first call of
// a step. A fresh copy is built each time so callers may not alter it.
func Catalogue() []Definition {
	return []Definition{
		{
			Kind: KindPlaceOrder,
			Name: KindPlaceOrder.String(),
			Description: "Place the customer's order and return the order details. " +
				"Only call this when the customer has finalized their order, " +
				"and in your final response read them the price of their order.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order": map[string]any{
						"type":        []any{"object", "string"},
						"description": orderShape,
					},
				},
			},
		},
		{
			Kind:        KindEndOrder,
			Name:        KindEndOrder.String(),
			Description: "Call this after you confirm the customer's order. This ends the conversation.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order": map[string]any{
						"type":        []any{"object", "string"},
						"description": "The confirmed order as JSON.",
					},
				},
			},
		},
	}
}

func definition(k Kind) (Definition, error) {
	for _, d := range Catalogue() {
		if d.Kind == k {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %s", ErrUnknownAction, k)
}
