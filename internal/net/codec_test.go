package net

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisjuchem/botgame/internal/game"
)

func TestMessageSurvivesWire(t *testing.T) {
	deck := game.BuiltinDecks()["skirmish"]
	src := game.GridLocation{Coord: game.Coord{X: 0, Y: 2}, Owner: game.NewPlayerID()}
	target := game.GridLocation{Coord: game.Coord{X: 1, Y: 3}, Owner: src.Owner}
	item := game.Item(game.Summon(game.DeckUnit(deck)), &src, target)

	data, err := Marshal(NewEffect(game.NewMatchID(), item))
	require.NoError(t, err)
	msg, err := Unmarshal(data)
	require.NoError(t, err)

	require.Equal(t, TypeEffect, msg.Type)
	got := msg.Effect.WorkItem()
	assert.Equal(t, []game.GridLocation{target}, got.Targets)
	require.NotNil(t, got.Source)
	assert.Equal(t, src, *got.Source)
	// Deeply nested cards keep every ability.
	assert.Equal(t, item.Effect.Card.Text(), got.Effect.Card.Text())
}

func TestUnmarshalRejectsMissingPayload(t *testing.T) {
	data, err := Marshal(Message{Type: TypeActivate})
	require.NoError(t, err)

	_, err = Unmarshal(data)
	var bad *DecodeError
	require.ErrorAs(t, err, &bad)
	assert.Contains(t, err.Error(), "without payload")
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0x00, 0x13})
	var bad *DecodeError
	assert.ErrorAs(t, err, &bad)

	_, err = Unmarshal([]byte{0xa1, 0x64, 't', 'y', 'p', 'e', 0x63, 'n', 'o', 'p'})
	assert.ErrorAs(t, err, &bad, "unknown type")
}

func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("hello")))
	require.NoError(t, WriteFrame(&buf, nil))
	assert.Equal(t, []byte{0, 0, 0, 5}, buf.Bytes()[:4])

	first, err := ReadFrame(&buf, 16)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(first))
	second, err := ReadFrame(&buf, 16)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestFrameLimit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, make([]byte, 32)))

	_, err := ReadFrame(&buf, 16)
	assert.True(t, errors.Is(err, ErrFrameTooLarge), "got %v", err)
}
