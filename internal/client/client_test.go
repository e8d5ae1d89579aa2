package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/device"
	"github.com/picotools/picoide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(t *testing.T) (*Client, *device.Device) {
	t.Helper()
	cfg := config.Default()
	cfg.Device.Root = filepath.Join(t.TempDir(), "device")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dev, err := device.New(cfg.Device, logger)
	require.NoError(t, err)
	t.Cleanup(dev.Close)

	ts := httptest.NewServer(device.NewServer(cfg, dev, logger).Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL + "/"), dev
}

func names(files []model.FileMetadata) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestClient_SaveLoad(t *testing.T) {
	c, _ := newDevice(t)
	ctx := context.Background()

	msg, err := c.SaveFile(ctx, "main.py", "")
	require.NoError(t, err)
	assert.Equal(t, "File saved: main.py", msg)

	content, err := c.LoadFile(ctx, "main.py")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestClient_LoadMissingIsNotFound(t *testing.T) {
	c, _ := newDevice(t)

	_, err := c.LoadFile(context.Background(), "missing.py")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "/load_file returned 404: File not found", se.Error())
}

func TestClient_CreateListDelete(t *testing.T) {
	c, _ := newDevice(t)
	ctx := context.Background()

	require.NoError(t, c.CreateFile(ctx, "blink.py"))
	files, err := c.ListFiles(ctx)
	require.NoError(t, err)
	assert.Contains(t, names(files), "blink.py")

	require.NoError(t, c.DeleteFile(ctx, "blink.py"))
	files, err = c.ListFiles(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names(files), "blink.py")
}

func TestClient_DeleteBootFileFails(t *testing.T) {
	c, dev := newDevice(t)
	require.NoError(t, dev.Files.Save("code.py", "x"))

	err := c.DeleteFile(context.Background(), "code.py")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_CommandAndConsole(t *testing.T) {
	c, _ := newDevice(t)
	ctx := context.Background()

	require.NoError(t, c.SendCommand(ctx, "6*7"))

	entries, err := c.GetConsole(ctx)
	require.NoError(t, err)
	assert.Contains(t, model.Transcript(entries), ">>> 6*7\n42\n")

	history, err := c.CommandHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "42", history[0].Output)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])
}

func TestClient_MalformedConsole(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := New(ts.URL).GetConsole(context.Background())
	assert.ErrorContains(t, err, "failed to parse /get_console response")
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, WithTimeout(time.Second)).ListFiles(context.Background())
	assert.Error(t, err)
}

func TestClient_BaseURLTrimmed(t *testing.T) {
	assert.Equal(t, "http://192.168.4.1", New("http://192.168.4.1/").BaseURL())
}

func TestClient_TimeoutDoesNotTouchSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := New("http://device", WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.client.Timeout)
	assert.NotSame(t, shared, c.client)
}

func TestClient_NilHTTPClientKeepsDefault(t *testing.T) {
	var c *Client
	assert.NotPanics(t, func() {
		c = New("http://device", WithHTTPClient(nil), WithTimeout(time.Second))
	})
	require.NotNil(t, c.client)
	assert.Equal(t, time.Second, c.client.Timeout)
}

func TestClient_SharedClientUsedAsIs(t *testing.T) {
	shared := &http.Client{}
	c := New("http://device", WithHTTPClient(shared))
	assert.Same(t, shared, c.client)
}
