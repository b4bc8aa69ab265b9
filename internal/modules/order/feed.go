package order

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// NotifyChannel is the Postgres channel the orders trigger publishes to.
const NotifyChannel = "order_changes"

// Event op values mirror TG_OP in the trigger payload.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
)

// Event is one committed insert or update on the orders table. Row may be
// empty when the notification payload was too large or after a reconnect;
// consumers re-fetch rather than patch local state, so that is harmless.
type Event struct {
	Op      string
	OrderID string
	Row     json.RawMessage
}

// Token identifies a feed subscription for Unsubscribe.
type Token int

type subscriber struct {
	onInsert func(Event)
	onUpdate func(Event)
}

// Feed fans orders-table notifications out to subscribers. Delivery is
// at-least-once: a reconnect gap is papered over with a synthetic update
// event so consumers refresh rather than trust their last snapshot.
// Handlers run on the feed goroutine and must not block.
type Feed struct {
	notifications <-chan *pq.Notification
	log           *logrus.Logger

	mu   sync.Mutex // guards next and subs
	next Token
	subs map[Token]subscriber

	// deliverMu is held for the whole of a dispatch. Unsubscribe takes it
	// after removing the subscriber, so an in-flight delivery has finished
	// by the time Unsubscribe returns.
	deliverMu sync.Mutex
}

// NewFeed wraps a notification channel, typically pq.Listener.Notify.
func NewFeed(notifications <-chan *pq.Notification, log *logrus.Logger) *Feed {
	return &Feed{
		notifications: notifications,
		log:           log,
		subs:          make(map[Token]subscriber),
	}
}

// Subscribe registers handlers for insert and update events. Either handler
// may be nil to ignore that kind. Safe to call from inside a handler; the new
// subscriber sees events from the next dispatch on.
func (f *Feed) Subscribe(onInsert, onUpdate func(Event)) Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.subs[f.next] = subscriber{onInsert: onInsert, onUpdate: onUpdate}
	return f.next
}

// Unsubscribe stops all further delivery to the token's handlers. Safe to
// call more than once; no callback runs after it returns. It must not be
// called from inside a handler, because it waits for the current dispatch
// to finish; a handler that wants to retire itself should hand the token to
// another goroutine.
func (f *Feed) Unsubscribe(t Token) {
	f.mu.Lock()
	delete(f.subs, t)
	f.mu.Unlock()

	// A dispatch that snapshotted the subscriber before the delete may still
	// be delivering to it; wait for it to drain.
	f.deliverMu.Lock()
	f.deliverMu.Unlock()
}

// Run consumes notifications until the context is cancelled or the channel
// closes. A nil notification is the listener's reconnect marker: the feed
// logs the degraded window and dispatches a synthetic update so watchers
// re-fetch whatever they missed.
func (f *Feed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-f.notifications:
			if !ok {
				return
			}
			if n == nil {
				f.log.Warn("order feed reconnected; forcing refresh")
				f.dispatch(Event{Op: OpUpdate})
				continue
			}
			var payload struct {
				Op  string          `json:"op"`
				ID  string          `json:"id"`
				Row json.RawMessage `json:"row"`
			}
			if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
				f.log.WithError(err).Warn("order feed: undecodable notification")
				continue
			}
			f.dispatch(Event{Op: payload.Op, OrderID: payload.ID, Row: payload.Row})
		}
	}
}

// dispatch invokes handlers on a snapshot of the subscriber set, so handlers
// can Subscribe without deadlocking on f.mu. deliverMu is what backs
// Unsubscribe's no-callback-after-return contract.
func (f *Feed) dispatch(e Event) {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.mu.Lock()
	subs := make([]subscriber, 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		switch e.Op {
		case OpInsert:
			if sub.onInsert != nil {
				sub.onInsert(e)
			}
		default:
			if sub.onUpdate != nil {
				sub.onUpdate(e)
			}
		}
	}
}
