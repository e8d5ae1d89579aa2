package device

import (
	"errors"
	"testing"

	"github.com/picotools/picoide/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_BeginFinish(t *testing.T) {
	h := NewHistory(10)

	id := h.Begin("1+1")
	require.NotEmpty(t, id)

	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.CommandRunning, entries[0].Status)
	assert.Nil(t, entries[0].CompletedAt)

	h.Finish(id, "2", nil)
	entries = h.Entries()
	assert.Equal(t, model.CommandOK, entries[0].Status)
	assert.Equal(t, "2", entries[0].Output)
	assert.NotNil(t, entries[0].CompletedAt)
}

func TestHistory_Failure(t *testing.T) {
	h := NewHistory(10)

	id := h.Begin("1/0")
	h.Finish(id, "", errors.New("division by zero"))

	rec := h.Entries()[0]
	assert.Equal(t, model.CommandFailed, rec.Status)
	assert.Equal(t, "division by zero", rec.Error)
}

func TestHistory_NewestFirstAndCapped(t *testing.T) {
	h := NewHistory(3)
	for _, c := range []string{"a", "b", "c", "d"} {
		h.Finish(h.Begin(c), c, nil)
	}

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "d", entries[0].Command)
	assert.Equal(t, "c", entries[1].Command)
	assert.Equal(t, "b", entries[2].Command)
}

func TestHistory_FinishUnknownID(t *testing.T) {
	h := NewHistory(3)
	h.Begin("a")
	assert.NotPanics(t, func() { h.Finish("missing", "", nil) })
	assert.Equal(t, model.CommandRunning, h.Entries()[0].Status)
}
