package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFileWatcher_LoadsInitialContentsOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reactionId":1}`), 0o644))

	received := make(chan []byte, 1)
	w := NewSeedFileWatcher(path, func(data []byte) error {
		received <- data
		return nil
	}, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	select {
	case data := <-received:
		assert.JSONEq(t, `{"reactionId":1}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial seed load")
	}
}

func TestSeedFileWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reactionId":1}`), 0o644))

	received := make(chan []byte, 4)
	w := NewSeedFileWatcher(path, func(data []byte) error {
		received <- data
		return nil
	}, nil)
	require.NoError(t, w.Start())
	defer w.Stop()
	<-received // drain initial load

	require.NoError(t, os.WriteFile(path, []byte(`{"reactionId":2}`), 0o644))

	select {
	case data := <-received:
		assert.JSONEq(t, `{"reactionId":2}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload after write")
	}
}

func TestSeedFileWatcher_EmptyPathIsNoOp(t *testing.T) {
	w := NewSeedFileWatcher("", func(data []byte) error {
		t.Fatal("onChange should never be called for an empty path")
		return nil
	}, nil)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
}

func TestDecodeSeed_SniffsJSONVsYAML(t *testing.T) {
	type reaction struct {
		ReactionID int `json:"reactionId" yaml:"reactionId"`
	}

	var fromJSON reaction
	require.NoError(t, DecodeSeed([]byte(`{"reactionId": 7}`), &fromJSON))
	assert.Equal(t, 7, fromJSON.ReactionID)

	var fromYAML reaction
	require.NoError(t, DecodeSeed([]byte("reactionId: 9\n"), &fromYAML))
	assert.Equal(t, 9, fromYAML.ReactionID)
}
