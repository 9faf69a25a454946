package engine

import "testing"

func TestQueueFIFOOrder(t *testing.T) {
	q := newRequestQueue()
	q.push(envelope{id: "1"})
	q.push(envelope{id: "2"})
	q.push(envelope{id: "3"})

	for _, want := range []string{"1", "2", "3"} {
		got, ok := q.pop()
		if !ok || got.id != want {
			t.Fatalf("pop() = %v, %v, want id %q", got, ok, want)
		}
	}
}

func TestQueuePushAfterCloseDropped(t *testing.T) {
	q := newRequestQueue()
	q.close()
	if ok := q.push(envelope{id: "late"}); ok {
		t.Errorf("push after close should report false")
	}
	if _, ok := q.pop(); ok {
		t.Errorf("pop on closed, empty queue should report false")
	}
}

func TestQueueDrainsBeforeClosing(t *testing.T) {
	q := newRequestQueue()
	q.push(envelope{id: "1"})
	q.close()

	got, ok := q.pop()
	if !ok || got.id != "1" {
		t.Fatalf("expected to drain pre-close item, got %v, %v", got, ok)
	}
	if _, ok := q.pop(); ok {
		t.Errorf("expected drained+closed queue to report false")
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := newRequestQueue()
	done := make(chan envelope, 1)
	go func() {
		item, _ := q.pop()
		done <- item
	}()

	q.push(envelope{id: "async"})
	item := <-done
	if item.id != "async" {
		t.Errorf("id = %q, want async", item.id)
	}
}
