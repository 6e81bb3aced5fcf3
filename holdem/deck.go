package holdem

import (
	"math/rand"

	"github.com/idsulik/go-collections/v3/queue"
)

// Deck is the shuffled card source for one hand. It is owned by a single
// engine and never shared across hands.
type Deck struct {
	rand *rand.Rand
	q    *queue.Queue[Card]
}

func NewDeck(rand *rand.Rand) *Deck {
	h := &Deck{
		rand: rand,
	}
	h.Reset()
	return h
}

func (h *Deck) Reset() {
	h.q = queue.New[Card](52)
	full := FullDeck()
	perm := h.rand.Perm(52)
	for _, v := range perm {
		h.q.Enqueue(full[v])
	}
}

func (h *Deck) Get() Card {
	val, ex := h.q.Dequeue()
	if !ex {
		panic("deck is empty")
	}
	return val
}

func (h *Deck) Remaining() int {
	return h.q.Len()
}
