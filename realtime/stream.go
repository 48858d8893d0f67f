package realtime

import "context"

// Subscribe registers a subscriber for log events.
// The channel is closed when ctx ends.
func (t *Ticker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	t.subMu.Lock()
	id := t.next
	t.next++
	t.subs[id] = ch
	t.subMu.Unlock()

	go func() {
		<-ctx.Done()
		t.subMu.Lock()
		delete(t.subs, id)
		close(ch)
		t.subMu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of live subscriptions.
func (t *Ticker) Subscribers() int {
	t.subMu.RLock()
	defer t.subMu.RUnlock()
	return len(t.subs)
}

func (t *Ticker) publish(evt Event) {
	t.subMu.RLock()
	defer t.subMu.RUnlock()
	for _, ch := range t.subs {
		select {
		case ch <- evt:
		default:
			// slow subscriber; drop
		}
	}
}
