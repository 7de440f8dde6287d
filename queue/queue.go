// Package queue routes typed messages between chains. It models the
// platform's cross-chain delivery layer at its interface boundary:
// asynchronous, at-least-once, ordered only within a single sender-to-topic
// flow. Nothing here blocks waiting for a cross-chain round trip.
package queue

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	log "github.com/inconshreveable/log15"

	"github.com/winzalabs/winzachain/types"
)

var qlog = log.New("module", "queue")

const defaultChanBuffer = 64

// Message is one cross-chain delivery. Topic is the destination chain id;
// the payload is an encoded transaction executed on arrival.
type Message struct {
	ID            string `json:"id"`
	Topic         string `json:"topic"`
	Ty            int64  `json:"ty"`
	Data          []byte `json:"data"`
	Authenticated bool   `json:"authenticated"`
}

// Message types.
const (
	TyTx = int64(1)
)

// NewTxMessage wraps a transaction for delivery to another chain.
func NewTxMessage(topic string, tx *types.Transaction) *Message {
	return &Message{
		ID:            uuid.NewString(),
		Topic:         topic,
		Ty:            TyTx,
		Data:          types.Encode(tx),
		Authenticated: true,
	}
}

// Queue fans messages out to per-topic subscribers.
type Queue struct {
	mu       sync.Mutex
	name     string
	chans    map[string]chan *Message
	isClosed int32
}

func New(name string) *Queue {
	return &Queue{
		name:  name,
		chans: make(map[string]chan *Message),
	}
}

func (q *Queue) chanSub(topic string) chan *Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.chans[topic]; !ok {
		q.chans[topic] = make(chan *Message, defaultChanBuffer)
	}
	return q.chans[topic]
}

// Send enqueues a message for its topic. Delivery is best effort: a full
// inbox drops the message. The platform's delivery layer gives no stronger
// guarantee, so a dropped stake is permanently lost from the round's
// accounting.
func (q *Queue) Send(msg *Message) error {
	if atomic.LoadInt32(&q.isClosed) == 1 {
		return types.ErrIsClosed
	}
	ch := q.chanSub(msg.Topic)
	select {
	case ch <- msg:
		return nil
	default:
		qlog.Error("Send dropped", "topic", msg.Topic, "id", msg.ID)
		return nil
	}
}

func (q *Queue) Close() {
	if !atomic.CompareAndSwapInt32(&q.isClosed, 0, 1) {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for topic, ch := range q.chans {
		close(ch)
		delete(q.chans, topic)
	}
	qlog.Info("queue closed", "name", q.name)
}

// Client gives one chain a handle for sending and receiving.
type Client interface {
	Send(msg *Message) error
	Sub(topic string) chan *Message
	Close()
}

type client struct {
	q     *Queue
	topic string
}

func (q *Queue) NewClient() Client {
	return &client{q: q}
}

func (c *client) Send(msg *Message) error {
	return c.q.Send(msg)
}

func (c *client) Sub(topic string) chan *Message {
	c.topic = topic
	return c.q.chanSub(topic)
}

func (c *client) Close() {
	// the queue owns the channels; per-client close is a no-op
}
