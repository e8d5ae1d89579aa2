package device

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/picotools/picoide/internal/config"
	"github.com/picotools/picoide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *Device) {
	t.Helper()
	dev := newTestDevice(t)
	srv := NewServer(config.Default(), dev, dev.logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, dev
}

func post(t *testing.T, ts *httptest.Server, path string, body interface{}) (*http.Response, string) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(text)
}

func TestServer_SaveAndLoad(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, text := post(t, ts, "/save_file", map[string]string{"filename": "main.py", "content": "print(1)\n"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "File saved: main.py", text)

	resp, text = post(t, ts, "/load_file", map[string]string{"filename": "main.py"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loaded struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &loaded))
	assert.Equal(t, "print(1)\n", loaded.Content)
}

func TestServer_LoadMissing(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, text := post(t, ts, "/load_file", map[string]string{"filename": "missing.py"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "File not found", text)
}

func TestServer_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, text := post(t, ts, "/save_file", map[string]string{"filename": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Filename required", text)

	resp, _ = post(t, ts, "/create_file", map[string]string{"filename": "../x.py"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, text = post(t, ts, "/send_command", map[string]string{"command": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Command required", text)

	r, err := http.Post(ts.URL+"/save_file", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestServer_CreateListDelete(t *testing.T) {
	ts, _ := newTestServer(t)

	listNames := func() []string {
		resp, err := http.Get(ts.URL + "/list_files")
		require.NoError(t, err)
		defer resp.Body.Close()
		var files []model.FileMetadata
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&files))
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name)
		}
		return names
	}

	resp, text := post(t, ts, "/create_file", map[string]string{"filename": "blink.py"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "File created", text)
	assert.Contains(t, listNames(), "blink.py")

	resp, text = post(t, ts, "/delete_file", map[string]string{"filename": "blink.py"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "File deleted", text)
	assert.NotContains(t, listNames(), "blink.py")
}

func TestServer_DeleteBootFileRefused(t *testing.T) {
	ts, dev := newTestServer(t)
	require.NoError(t, dev.Files.Save("code.py", "x"))

	for _, name := range []string{"code.py", "./code.py", "lib/../code.py"} {
		resp, text := post(t, ts, "/delete_file", map[string]string{"filename": name})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, name)
		assert.Equal(t, "Cannot delete code.py (currently running)", text, name)
	}

	_, err := dev.Files.Load("code.py")
	assert.NoError(t, err)
}

func TestServer_SendCommandAndConsole(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, text := post(t, ts, "/send_command", map[string]string{"command": "echo hi"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Command executed", text)

	// Shell errors still answer 200; the error goes to the console
	resp, _ = post(t, ts, "/send_command", map[string]string{"command": "1/0"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	r, err := http.Get(ts.URL + "/get_console")
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

	var entries []model.ConsoleEntry
	require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
	transcript := model.Transcript(entries)
	assert.Contains(t, transcript, ">>> echo hi\nhi\n")
	assert.Contains(t, transcript, ">>> 1/0\nError: division by zero\n")
}

func TestServer_CommandHistory(t *testing.T) {
	ts, _ := newTestServer(t)
	post(t, ts, "/send_command", map[string]string{"command": "1+1"})
	post(t, ts, "/send_command", map[string]string{"command": "2+2"})

	r, err := http.Get(ts.URL + "/command_history")
	require.NoError(t, err)
	defer r.Body.Close()

	var records []model.CommandRecord
	require.NoError(t, json.NewDecoder(r.Body).Decode(&records))
	require.Len(t, records, 2)
	assert.Equal(t, "2+2", records[0].Command)
	assert.Equal(t, "4", records[0].Output)
}

func TestServer_HealthAndPages(t *testing.T) {
	ts, dev := newTestServer(t)

	r, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer r.Body.Close()
	assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, dev.BootID(), health["boot_id"])

	page, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer page.Body.Close()
	body, _ := io.ReadAll(page.Body)
	assert.Contains(t, string(body), "/get_console")

	css, err := http.Get(ts.URL + "/styles.css")
	require.NoError(t, err)
	css.Body.Close()
	assert.Contains(t, css.Header.Get("Content-Type"), "text/css")
}

func TestServer_MethodMismatch(t *testing.T) {
	ts, _ := newTestServer(t)

	r, err := http.Get(ts.URL + "/save_file")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, r.StatusCode)
}

func TestServer_SaveBootFileSchedulesReboot(t *testing.T) {
	ts, dev := newTestServer(t)
	old := dev.BootID()

	_, text := post(t, ts, "/save_file", map[string]string{"filename": "code.py", "content": "x"})
	assert.Contains(t, text, "Rebooting")
	assert.Eventually(t, func() bool { return dev.BootID() != old }, 2*time.Second, 10*time.Millisecond)
}
