// Package status holds the transient status line shown after each user action.
package status

import (
	"sync"
	"time"
)

// DefaultHideDelay is how long success and warning messages stay visible
const DefaultHideDelay = 3 * time.Second

// Kind classifies a status message
type Kind string

const (
	KindNone    Kind = ""
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Message is the banner content at one point in time
type Message struct {
	Kind Kind
	Text string
}

// Visible reports whether the banner shows anything
func (m Message) Visible() bool {
	return m.Kind != KindNone
}

// Banner shows one message at a time. Success and warning messages hide
// themselves after the hide delay; errors stay until replaced.
type Banner struct {
	// notifyMu orders onChange calls; it is taken before mu
	notifyMu sync.Mutex

	mu       sync.Mutex
	current  Message
	seq      uint64
	delay    time.Duration
	timer    *time.Timer
	onChange func(Message)
}

// NewBanner creates an empty banner. onChange, if set, is called after every
// change including auto-hide. Calls are serialised and a change that has
// already been superseded is not delivered, so the last call always carries
// Current(). onChange must not call back into the banner.
func NewBanner(delay time.Duration, onChange func(Message)) *Banner {
	if delay <= 0 {
		delay = DefaultHideDelay
	}
	return &Banner{delay: delay, onChange: onChange}
}

// Show replaces the current message
func (b *Banner) Show(kind Kind, text string) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.current = Message{Kind: kind, Text: text}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if kind == KindSuccess || kind == KindWarning {
		b.timer = time.AfterFunc(b.delay, func() { b.hide(seq) })
	}
	msg := b.current
	b.mu.Unlock()

	b.notify(seq, msg)
}

func (b *Banner) Success(text string) { b.Show(KindSuccess, text) }
func (b *Banner) Warning(text string) { b.Show(KindWarning, text) }
func (b *Banner) Error(text string)   { b.Show(KindError, text) }

// Clear hides the banner immediately
func (b *Banner) Clear() {
	b.Show(KindNone, "")
}

// Current returns the message on display
func (b *Banner) Current() Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// hide clears the banner unless a newer message replaced the one that armed
// the timer
func (b *Banner) hide(seq uint64) {
	b.mu.Lock()
	if b.seq != seq {
		b.mu.Unlock()
		return
	}
	b.current = Message{}
	b.timer = nil
	b.mu.Unlock()

	b.notify(seq, Message{})
}

// notify delivers msg unless a newer Show replaced it in the meantime
func (b *Banner) notify(seq uint64, msg Message) {
	if b.onChange == nil {
		return
	}

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	b.mu.Lock()
	stale := b.seq != seq || b.current != msg
	b.mu.Unlock()
	if stale {
		return
	}
	b.onChange(msg)
}
