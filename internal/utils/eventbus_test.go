package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishDeliversToStream(t *testing.T) {
	bus := NewEventBus()

	bus.Publish("todo_created", map[string]interface{}{"id": 1})

	select {
	case e := <-bus.SubscribeCh():
		assert.Equal(t, "todo_created", e.Event)
	default:
		t.Fatal("expected event on stream")
	}
}

func TestEventBus_SubscribeHandlers(t *testing.T) {
	bus := NewEventBus()

	var got []string
	bus.Subscribe("todo_deleted", func(e Event) {
		got = append(got, e.Event)
	})

	bus.Publish("todo_created", nil)
	bus.Publish("todo_deleted", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "todo_deleted", got[0])
}

func TestEventBus_PublishDropsWhenFull(t *testing.T) {
	bus := NewEventBus()

	for i := 0; i < cap(bus.events)+10; i++ {
		bus.Publish("todo_updated", i)
	}

	assert.Len(t, bus.events, cap(bus.events))
}
