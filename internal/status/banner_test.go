package status

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner_SuccessAutoHides(t *testing.T) {
	b := NewBanner(20*time.Millisecond, nil)

	b.Success("File saved")
	assert.Equal(t, Message{Kind: KindSuccess, Text: "File saved"}, b.Current())

	assert.Eventually(t, func() bool { return !b.Current().Visible() }, time.Second, 5*time.Millisecond)
}

func TestBanner_WarningAutoHides(t *testing.T) {
	b := NewBanner(20*time.Millisecond, nil)

	b.Warning("Please enter a filename")
	assert.Eventually(t, func() bool { return !b.Current().Visible() }, time.Second, 5*time.Millisecond)
}

func TestBanner_ErrorPersists(t *testing.T) {
	b := NewBanner(10*time.Millisecond, nil)

	b.Error("Error fetching console: boom")
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, KindError, b.Current().Kind)
	assert.Equal(t, "Error fetching console: boom", b.Current().Text)
}

func TestBanner_ErrorReplacesPendingHide(t *testing.T) {
	b := NewBanner(20*time.Millisecond, nil)

	b.Success("ok")
	b.Error("failed")
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, KindError, b.Current().Kind)
}

func TestBanner_StaleTimerDoesNotHideNewerMessage(t *testing.T) {
	b := NewBanner(40*time.Millisecond, nil)

	b.Success("first")
	time.Sleep(25 * time.Millisecond)
	b.Success("second")
	time.Sleep(25 * time.Millisecond)

	// first timer would have fired by now
	assert.Equal(t, "second", b.Current().Text)
	assert.Eventually(t, func() bool { return !b.Current().Visible() }, time.Second, 5*time.Millisecond)
}

func TestBanner_OnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []Message
	b := NewBanner(10*time.Millisecond, func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, m)
	})

	b.Success("saved")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, KindSuccess, seen[0].Kind)
	assert.False(t, seen[1].Visible())
}

func TestBanner_Clear(t *testing.T) {
	b := NewBanner(time.Hour, nil)
	b.Error("x")
	b.Clear()
	assert.False(t, b.Current().Visible())
}

// A hide that loses the race with a newer message must not repaint an
// empty banner over it.
func TestBanner_LateHideNotificationDropped(t *testing.T) {
	var mu sync.Mutex
	var got []Message
	b := NewBanner(time.Hour, func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m)
	})

	b.Success("first")
	b.Error("second")
	b.notify(1, Message{})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, Message{Kind: KindError, Text: "second"}, got[1])
	assert.Equal(t, b.Current(), got[len(got)-1])
}

func TestBanner_LateShowNotificationDropped(t *testing.T) {
	var got []Message
	b := NewBanner(time.Hour, func(m Message) { got = append(got, m) })

	b.Warning("w")
	b.hide(1)
	b.notify(1, Message{Kind: KindWarning, Text: "w"})

	require.Len(t, got, 2)
	assert.Equal(t, Message{}, got[1])
	assert.Equal(t, b.Current(), got[len(got)-1])
}

func TestBanner_ConcurrentChangesEndOnCurrent(t *testing.T) {
	var mu sync.Mutex
	var last Message
	b := NewBanner(time.Millisecond, func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		last = m
	})

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				b.Success("ok")
			} else {
				b.Clear()
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last == b.Current()
	}, time.Second, 5*time.Millisecond)
}
