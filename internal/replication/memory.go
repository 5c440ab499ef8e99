package replication

import (
	"context"
	"sync"
)

const memoryBuffer = 64

// MemoryRelay is an in process relay. Envelopes cross it encoded, so every subscriber
// receives its own copy of the snapshot.
type MemoryRelay struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySubscription]struct{}
}

func NewMemoryRelay() *MemoryRelay {
	return &MemoryRelay{subs: make(map[string]map[*memorySubscription]struct{})}
}

// Publish never blocks: a subscriber whose queue is full misses the envelope,
// the same way a slow redis subscriber does. A later snapshot supersedes it.
func (that *MemoryRelay) Publish(ctx context.Context, envelope Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := envelope.Encode()
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for sub := range that.subs[envelope.RoomID] {
		select {
		case sub.queue <- raw:
		default:
		}
	}

	return nil
}

func (that *MemoryRelay) Subscribe(_ context.Context, roomID string, handler func(Envelope)) (Subscription, error) {
	sub := &memorySubscription{
		relay:  that,
		roomID: roomID,
		queue:  make(chan []byte, memoryBuffer),
		done:   make(chan struct{}),
	}

	that.mu.Lock()
	if that.subs[roomID] == nil {
		that.subs[roomID] = make(map[*memorySubscription]struct{})
	}
	that.subs[roomID][sub] = struct{}{}
	that.mu.Unlock()

	go sub.run(handler)

	return sub, nil
}

type memorySubscription struct {
	relay  *MemoryRelay
	roomID string
	queue  chan []byte
	done   chan struct{}
	once   sync.Once
}

func (that *memorySubscription) run(handler func(Envelope)) {
	for {
		select {
		case raw := <-that.queue:
			envelope, err := Decode(raw)
			if err == nil {
				handler(envelope)
			}
		case <-that.done:
			return
		}
	}
}

func (that *memorySubscription) Close() error {
	that.once.Do(func() {
		that.relay.mu.Lock()
		delete(that.relay.subs[that.roomID], that)
		that.relay.mu.Unlock()

		close(that.done)
	})
	return nil
}
