package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFanout(t *testing.T) {
	bus := New()

	first, cancelFirst := bus.Subscribe(4)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(4)
	defer cancelSecond()

	bus.Publish(Event{Type: "run_started", Data: "rates"})

	select {
	case ev := <-first:
		assert.Equal(t, "run_started", ev.Type)
		assert.Equal(t, "rates", ev.Data)
	case <-time.After(time.Second):
		t.Fatal("first subscriber did not receive event")
	}

	select {
	case ev := <-second:
		assert.Equal(t, "run_started", ev.Type)
	case <-time.After(time.Second):
		t.Fatal("second subscriber did not receive event")
	}
}

func TestPublishStampsTime(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(Event{Type: "run_item"})

	ev := <-ch
	assert.False(t, ev.Time.IsZero())
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(Event{Type: "first"})
	bus.Publish(Event{Type: "second"})
	bus.Publish(Event{Type: "third"})

	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, "first", ev.Type)
}

func TestUnsubscribe(t *testing.T) {
	bus := New()
	ch, cancel := bus.Subscribe(1)

	assert.Equal(t, 1, bus.SubscriberCount())

	cancel()
	cancel()

	assert.Equal(t, 0, bus.SubscriberCount())

	bus.Publish(Event{Type: "run_finished"})

	select {
	case <-ch:
		t.Fatal("unsubscribed channel received event")
	default:
	}
}
