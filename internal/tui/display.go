package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/picotools/picoide/internal/status"
)

// Messages delivered from background goroutines
type transcriptMsg struct {
	text string
}

type scrollBottomMsg struct{}

type statusMsg status.Message

// bridge forwards poller and banner updates into the bubbletea loop. It
// satisfies console.Display.
//
// post never blocks: the banner is also updated from inside Update, where a
// direct Program.Send would wait on the loop that is running it. Messages are
// queued and delivered in order by a single pump goroutine. Messages posted
// before attach or after close are dropped.
type bridge struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	queue  []tea.Msg
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// attach starts delivering messages through send
func (b *bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.send != nil || b.closed {
		return
	}
	b.send = send
	b.wake = make(chan struct{}, 1)
	b.done = make(chan struct{})
	go b.pump(send, b.wake, b.done)
}

// close stops the pump. Queued messages are dropped.
func (b *bridge) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.queue = nil
	if b.done != nil {
		close(b.done)
	}
}

func (b *bridge) post(msg tea.Msg) {
	b.mu.Lock()
	if b.send == nil || b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, msg)
	wake := b.wake
	b.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

func (b *bridge) pump(send func(tea.Msg), wake <-chan struct{}, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-wake:
		}

		b.mu.Lock()
		pending := b.queue
		b.queue = nil
		b.mu.Unlock()

		for _, msg := range pending {
			select {
			case <-done:
				return
			default:
			}
			send(msg)
		}
	}
}

func (b *bridge) SetTranscript(text string) { b.post(transcriptMsg{text: text}) }
func (b *bridge) ScrollToBottom()           { b.post(scrollBottomMsg{}) }

// Status is the banner onChange hook
func (b *bridge) Status(m status.Message) { b.post(statusMsg(m)) }
