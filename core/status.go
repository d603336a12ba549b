package core

import (
	"sync"
	"time"

	"artisan-dex/core/model"
)

// StatusBoard holds the single transaction status shown to the user and
// hides success and error banners after their TTL.
type StatusBoard struct {
	mu         sync.Mutex
	current    model.TxStatus
	successTTL time.Duration
	errorTTL   time.Duration
	timer      *time.Timer
	gen        uint64

	subscribers map[int]chan model.TxStatus
	nextSubID   int
}

func NewStatusBoard(successTTL, errorTTL time.Duration) *StatusBoard {
	return &StatusBoard{
		current:     model.HiddenTxStatus(),
		successTTL:  successTTL,
		errorTTL:    errorTTL,
		subscribers: make(map[int]chan model.TxStatus),
	}
}

func (b *StatusBoard) Current() model.TxStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Show replaces the current status. Any pending auto-dismiss is cancelled.
func (b *StatusBoard) Show(phase model.TxPhase, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.current = model.TxStatus{Visible: true, Phase: phase, Message: message}

	var ttl time.Duration
	switch phase {
	case model.TxPhaseSuccess:
		ttl = b.successTTL
	case model.TxPhaseError:
		ttl = b.errorTTL
	}
	if ttl > 0 {
		gen := b.gen
		b.timer = time.AfterFunc(ttl, func() { b.dismiss(gen) })
	}
	b.broadcast()
}

func (b *StatusBoard) Hide() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.current = model.HiddenTxStatus()
	b.broadcast()
}

func (b *StatusBoard) dismiss(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return
	}
	b.timer = nil
	b.current = model.HiddenTxStatus()
	b.broadcast()
}

// Subscribe returns a channel receiving the current status immediately and
// every change after it. Slow subscribers miss intermediate updates.
func (b *StatusBoard) Subscribe() (<-chan model.TxStatus, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan model.TxStatus, 16)
	id := b.nextSubID
	b.nextSubID++
	b.subscribers[id] = ch
	ch <- b.current

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(c)
		}
	}
	return ch, cancel
}

func (b *StatusBoard) broadcast() {
	for _, ch := range b.subscribers {
		select {
		case ch <- b.current:
		default:
		}
	}
}
