package order

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidArgs = errors.New("invalid action arguments")

// ValidationError lists the schema violations found in a call's arguments.
type ValidationError struct {
	Action string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s arguments do not match schema: %s", e.Action, strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArgs }

// Args are the decoded arguments of one action call.
type Args struct {
	Fields map[string]json.RawMessage

	// Order is the opaque order payload, set for place_order.
	Order json.RawMessage
}

// DecodeArgs turns the model's text-encoded arguments into key/value form and
// checks them against the action's parameter schema. A malformed payload is
// always an error; it never degrades to an empty order.
func DecodeArgs(k Kind, raw string) (Args, error) {
	def, err := definition(k)
	if err != nil {
		return Args{}, err
	}

	if strings.TrimSpace(raw) == "" {
		if k == KindPlaceOrder {
			return Args{}, fmt.Errorf("%w: %s called without arguments", ErrInvalidArgs, def.Name)
		}
		raw = "{}"
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Args{}, fmt.Errorf("%w: decode %s arguments: %v", ErrInvalidArgs, def.Name, err)
	}
	if fields == nil {
		return Args{}, fmt.Errorf("%w: %s arguments are null", ErrInvalidArgs, def.Name)
	}

	if err := validate(def, raw); err != nil {
		return Args{}, err
	}

	args := Args{Fields: fields}
	if k != KindPlaceOrder {
		return args, nil
	}

	args.Order, err = extractOrder(fields, raw)
	if err != nil {
		return Args{}, err
	}

	return args, nil
}

func validate(def Definition, raw string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Parameters))
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", def.Name, err)
	}

	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: validate %s arguments: %v", ErrInvalidArgs, def.Name, err)
	}
	if res.Valid() {
		return nil
	}

	issues := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		issues = append(issues, desc.String())
	}

	return &ValidationError{Action: def.Name, Issues: issues}
}

// extractOrder accepts the order either as the "order" field (an object, or a
// string holding JSON) or as the whole argument object. Either way it must be
// an object that lists items.
func extractOrder(fields map[string]json.RawMessage, raw string) (json.RawMessage, error) {
	v, ok := fields["order"]
	if !ok {
		return checkOrder(json.RawMessage(raw))
	}

	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != '"' {
		return checkOrder(v)
	}

	var text string
	if err := json.Unmarshal(v, &text); err != nil {
		return nil, fmt.Errorf("%w: order string: %v", ErrInvalidArgs, err)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("%w: order is not valid JSON: %q", ErrInvalidArgs, text)
	}

	return checkOrder(json.RawMessage(text))
}

func checkOrder(order json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(order, &fields); err != nil {
		return nil, fmt.Errorf("%w: order is not an object: %v", ErrInvalidArgs, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty order", ErrInvalidArgs)
	}
	if _, ok := fields["items"]; !ok {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidArgs)
	}
	return order, nil
}
