package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/picotools/picoide/internal/client"
	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/device"
	"github.com/picotools/picoide/internal/model"
	"github.com/picotools/picoide/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDisplay struct {
	mu   sync.Mutex
	text string
}

func (d *recordingDisplay) SetTranscript(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
}

func (d *recordingDisplay) ScrollToBottom() {}

func (d *recordingDisplay) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func testClientConfig() config.ClientConfig {
	cfg := config.Default().Client
	cfg.CommandEchoDelay = 10 * time.Millisecond
	cfg.PollInterval = 20 * time.Millisecond
	cfg.StatusHideDelay = time.Hour
	return cfg
}

func newSession(t *testing.T) (*Session, *recordingDisplay) {
	t.Helper()
	cfg := config.Default()
	cfg.Device.Root = filepath.Join(t.TempDir(), "device")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dev, err := device.New(cfg.Device, logger)
	require.NoError(t, err)
	t.Cleanup(dev.Close)

	ts := httptest.NewServer(device.NewServer(cfg, dev, logger).Handler())
	t.Cleanup(ts.Close)

	display := &recordingDisplay{}
	s := New(client.New(ts.URL), display, testClientConfig(), nil, logger)
	t.Cleanup(s.StopConsole)
	return s, display
}

func names(files []model.FileMetadata) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestSession_CreateThenDelete(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFile(ctx, "blink.py"))
	assert.Equal(t, "blink.py", s.Selected())
	assert.Equal(t, status.Message{Kind: status.KindSuccess, Text: "Created blink.py"}, s.Banner().Current())

	files, err := s.ListFiles(ctx)
	require.NoError(t, err)
	assert.Contains(t, names(files), "blink.py")

	require.NoError(t, s.DeleteFile(ctx, "blink.py"))
	assert.Equal(t, "", s.Selected())
	assert.Equal(t, "Deleted blink.py", s.Banner().Current().Text)

	files, err = s.ListFiles(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names(files), "blink.py")
}

func TestSession_DeleteKeepsOtherSelection(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFile(ctx, "a.py"))
	require.NoError(t, s.CreateFile(ctx, "b.py"))
	require.NoError(t, s.DeleteFile(ctx, "a.py"))

	assert.Equal(t, "b.py", s.Selected())
}

func TestSession_DeleteBootFileFails(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	_, err := s.SaveFile(ctx, "code.py", "print('hi')\n")
	require.NoError(t, err)

	err = s.DeleteFile(ctx, "code.py")
	require.Error(t, err)
	msg := s.Banner().Current()
	assert.Equal(t, status.KindError, msg.Kind)
	assert.Contains(t, msg.Text, "Cannot delete code.py (currently running)")
}

func TestSession_SaveAndLoad(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	msg, err := s.SaveFile(ctx, " main.py ", "x = 1\n")
	require.NoError(t, err)
	assert.Equal(t, "File saved: main.py", msg)
	assert.Equal(t, status.KindSuccess, s.Banner().Current().Kind)

	content, err := s.LoadFile(ctx, "main.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", content)
	assert.Equal(t, "Loaded main.py", s.Banner().Current().Text)
}

func TestSession_LoadMissing(t *testing.T) {
	s, _ := newSession(t)

	_, err := s.LoadFile(context.Background(), "nope.py")
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, status.Message{Kind: status.KindError, Text: "File not found: nope.py"}, s.Banner().Current())
}

func TestSession_EmptyInputSendsNothing(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer ts.Close()

	s := New(client.New(ts.URL), &recordingDisplay{}, testClientConfig(), nil, nil)
	ctx := context.Background()

	_, err := s.SaveFile(ctx, "  ", "content")
	assert.ErrorIs(t, err, ErrFilenameRequired)
	_, err = s.LoadFile(ctx, "")
	assert.ErrorIs(t, err, ErrFilenameRequired)
	assert.ErrorIs(t, s.CreateFile(ctx, ""), ErrFilenameRequired)
	assert.ErrorIs(t, s.DeleteFile(ctx, ""), ErrNoSelection)
	assert.ErrorIs(t, s.SendCommand(ctx, " "), ErrCommandRequired)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
	assert.Equal(t, status.KindWarning, s.Banner().Current().Kind)
}

func TestSession_SendCommandRepollsConsole(t *testing.T) {
	s, display := newSession(t)

	require.NoError(t, s.SendCommand(context.Background(), "1+1"))

	assert.Eventually(t, func() bool {
		return strings.Contains(display.Text(), ">>> 1+1\n2\n")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSession_SendCommandFailureIsReported(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	var mu sync.Mutex
	var errs []string
	s := New(client.New(ts.URL), &recordingDisplay{}, testClientConfig(), func(m status.Message) {
		if m.Kind != status.KindError {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, m.Text)
	}, nil)

	require.NoError(t, s.SendCommand(context.Background(), "1+1"))

	// one for the send, one for the re-poll
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(errs) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{
		"Error sending command: /send_command returned 500: boom",
		"Error fetching console: /get_console returned 500: boom",
	}, errs)
}

func TestSession_StartConsolePaintsTranscript(t *testing.T) {
	s, display := newSession(t)

	s.StartConsole(context.Background())
	assert.True(t, s.Poller().Running())

	assert.Eventually(t, func() bool {
		return strings.Contains(display.Text(), "=== PICOIDE DEVICE")
	}, 2*time.Second, 10*time.Millisecond)

	s.StopConsole()
	assert.False(t, s.Poller().Running())
}
