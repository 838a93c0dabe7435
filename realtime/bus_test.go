package realtime

import "testing"

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus()
	var first, second int
	bus.Subscribe(EventNewOrder, func(Event) { first++ })
	bus.Subscribe(EventNewOrder, func(Event) { second++ })

	bus.Publish(Event{Name: EventNewOrder})

	if first != 1 || second != 1 {
		t.Errorf("deliveries = %d, %d; a new registration must not replace an old one", first, second)
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	var kept, dropped int
	bus.Subscribe(EventOrderDeleted, func(Event) { kept++ })
	unsub := bus.Subscribe(EventOrderDeleted, func(Event) { dropped++ })

	bus.Publish(Event{Name: EventOrderDeleted})
	unsub()
	bus.Publish(Event{Name: EventOrderDeleted})

	if kept != 2 {
		t.Errorf("kept subscriber got %d deliveries, want 2", kept)
	}
	if dropped != 1 {
		t.Errorf("unsubscribed callback got %d deliveries, want 1", dropped)
	}
}

func TestBusIgnoresOtherEventNames(t *testing.T) {
	bus := NewBus()
	var got int
	bus.Subscribe(EventOrderCompleted, func(Event) { got++ })

	bus.Publish(Event{Name: EventNewOrder})

	if got != 0 {
		t.Errorf("subscriber for another event name was called %d times", got)
	}
}

func TestUnsubscribeFromWithinHandler(t *testing.T) {
	bus := NewBus()
	var calls int
	var unsub func()
	unsub = bus.Subscribe(EventNewItemsAdded, func(Event) {
		calls++
		unsub()
	})

	bus.Publish(Event{Name: EventNewItemsAdded})
	bus.Publish(Event{Name: EventNewItemsAdded})

	if calls != 1 {
		t.Errorf("one-shot handler ran %d times", calls)
	}
}

func TestRoomNames(t *testing.T) {
	if got := TableRoom(7); got != "table:7" {
		t.Errorf("TableRoom = %q", got)
	}
	if got := CustomerRoom(42); got != "customer:42" {
		t.Errorf("CustomerRoom = %q", got)
	}
}
