package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSpeaker struct {
	said []string
	err  error
}

func (s *recordingSpeaker) Say(_ context.Context, text string) error {
	s.said = append(s.said, text)
	return s.err
}

type recordingTickets struct {
	sent []json.RawMessage
}

func (r *recordingTickets) Send(_ context.Context, order json.RawMessage) error {
	r.sent = append(r.sent, order)
	return nil
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("place_order")
	require.NoError(t, err)
	assert.Equal(t, KindPlaceOrder, k)

	k, err = ParseKind("end_order")
	require.NoError(t, err)
	assert.Equal(t, KindEndOrder, k)

	_, err = ParseKind("place_mcdonalds_order")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestCatalogueNamesMatchKinds(t *testing.T) {
	defs := Catalogue()
	require.Len(t, defs, 2)
	for _, d := range defs {
		k, err := ParseKind(d.Name)
		require.NoError(t, err)
		assert.Equal(t, d.Kind, k)
		assert.NotEmpty(t, d.Description)
		assert.Equal(t, "object", d.Parameters["type"])
	}
}

func TestDecodeArgs(t *testing.T) {
	t.Run("order object", func(t *testing.T) {
		args, err := DecodeArgs(KindPlaceOrder, `{"order":{"items":[{"Item Name":"Big Mac"}]}}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[{"Item Name":"Big Mac"}]}`, string(args.Order))
	})

	t.Run("order as encoded string", func(t *testing.T) {
		args, err := DecodeArgs(KindPlaceOrder, `{"order":"{\"items\":[]}"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(args.Order))
	})

	t.Run("bare order", func(t *testing.T) {
		args, err := DecodeArgs(KindPlaceOrder, `{"items":[{"Item Name":"Fries","Quantity":1}]}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[{"Item Name":"Fries","Quantity":1}]}`, string(args.Order))
	})

	t.Run("end order without arguments", func(t *testing.T) {
		args, err := DecodeArgs(KindEndOrder, "")
		require.NoError(t, err)
		assert.Empty(t, args.Fields)
		assert.Nil(t, args.Order)
	})

	bad := map[string]string{
		"truncated":             `{"order": {"items": [`,
		"not json":              `Big Mac please`,
		"array":                 `[1, 2]`,
		"null":                  `null`,
		"order wrong type":      `{"order": 42}`,
		"order string not json": `{"order": "one big mac"}`,
		"empty":                 ``,
		"blank":                 "  \n",
		"empty object":          `{}`,
		"unrelated fields":      `{"unrelated": 1}`,
		"order without items":   `{"order": {"customer vehicle": "Camry"}}`,
		"empty order object":    `{"order": {}}`,
		"empty order string":    `{"order": "{}"}`,
		"order string array":    `{"order": "[1]"}`,
	}
	for name, raw := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeArgs(KindPlaceOrder, raw)
			assert.ErrorIs(t, err, ErrInvalidArgs)
		})
	}
}

func TestDecodeArgsSchemaViolation(t *testing.T) {
	_, err := DecodeArgs(KindPlaceOrder, `{"order": true}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "place_order", verr.Action)
	assert.NotEmpty(t, verr.Issues)
}

func TestPlaceRoundTrip(t *testing.T) {
	order := map[string]any{
		"customer vehicle": "2010 Toyota Camry",
		"items": []any{
			map[string]any{"Item Name": "Big Mac", "Quantity": 1.0, "customizations": []any{"No Pickles"}},
		},
	}
	raw, err := json.Marshal(order)
	require.NoError(t, err)

	speaker := &recordingSpeaker{}
	tickets := &recordingTickets{}
	a := NewActions(speaker, tickets)

	res, err := a.Place(context.Background(), raw)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(res), &back))
	assert.Equal(t, order, back)
	assert.Contains(t, res, "\n  \"customer vehicle\"")
	assert.Equal(t, []string{PlacingPhrase}, speaker.said)
	require.Len(t, tickets.sent, 1)
	assert.JSONEq(t, string(raw), string(tickets.sent[0]))
}

func TestInvoke(t *testing.T) {
	speaker := &recordingSpeaker{}
	a := NewActions(speaker, nil)

	out, err := a.Invoke(context.Background(), KindEndOrder, Args{})
	require.NoError(t, err)
	assert.True(t, out.End)
	assert.Equal(t, []string{ClosingPhrase}, speaker.said)

	_, err = a.Invoke(context.Background(), Kind(99), Args{})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestPlaceSpeakerFailure(t *testing.T) {
	boom := errors.New("no audio device")
	tickets := &recordingTickets{}
	a := NewActions(&recordingSpeaker{err: boom}, tickets)

	_, err := a.Place(context.Background(), json.RawMessage(`{"items":[]}`))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, tickets.sent)
}
