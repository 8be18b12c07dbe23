package ecs

import "testing"

type busPing struct{ N int }
type busPong struct{ N int }

func TestMessageBus_PumpDeliversFIFO(t *testing.T) {
	t.Run("TC301: publishes queue until PumpAll, then deliver in order", func(t *testing.T) {
		b := NewMessageBus()
		var got []int
		Subscribe(b, func(m busPing) { got = append(got, m.N) })

		Publish(b, busPing{N: 1})
		Publish(b, busPing{N: 2})
		if len(got) != 0 {
			t.Fatalf("expected no deliveries before PumpAll, got %v", got)
		}

		Publish(b, busPing{N: 3})
		delivered := b.PumpAll()
		if delivered != 3 {
			t.Fatalf("expected 3 deliveries, got %d", delivered)
		}
		if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
			t.Fatalf("expected FIFO order [1 2 3], got %v", got)
		}
	})
}

func TestMessageBus_SubscribeDuringPumpIsSnapshotAtEntry(t *testing.T) {
	t.Run("TC302: a subscriber added mid-pump misses the rest of this pump", func(t *testing.T) {
		b := NewMessageBus()
		var lateCount int
		Subscribe(b, func(busPing) {
			Subscribe(b, func(busPing) { lateCount++ })
		})

		Publish(b, busPing{})
		Publish(b, busPing{})
		b.PumpAll()
		if lateCount != 0 {
			t.Fatalf("expected the late subscriber to see nothing in the pump that added it, got %d", lateCount)
		}

		Publish(b, busPing{})
		b.PumpAll()
		if lateCount != 2 {
			t.Fatalf("expected both late subscribers (one added per first-pump message) to receive the next pump's message, got %d", lateCount)
		}
	})
}

func TestMessageBus_StableFirstTouchTopicOrder(t *testing.T) {
	t.Run("TC303: topics are visited in first-touch order across pumps", func(t *testing.T) {
		b := NewMessageBus()
		var order []string
		Subscribe(b, func(busPong) { order = append(order, "pong") })
		Subscribe(b, func(busPing) { order = append(order, "ping") })

		Publish(b, busPing{})
		Publish(b, busPong{})
		b.PumpAll()
		if len(order) != 2 || order[0] != "pong" || order[1] != "ping" {
			t.Fatalf("expected topic order pinned by first subscribe touch [pong ping], got %v", order)
		}
	})
}

func TestMessageBus_Unsubscribe(t *testing.T) {
	t.Run("TC304: unsubscribe stops future deliveries", func(t *testing.T) {
		b := NewMessageBus()
		count := 0
		tok := Subscribe(b, func(busPing) { count++ })
		Publish(b, busPing{})
		b.PumpAll()
		b.Unsubscribe(tok)
		Publish(b, busPing{})
		b.PumpAll()
		if count != 1 {
			t.Fatalf("expected exactly 1 delivery before unsubscribe, got %d", count)
		}
	})
}
