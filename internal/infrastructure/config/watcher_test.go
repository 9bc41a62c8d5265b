package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsChangedLevel(t *testing.T) {
	dir := t.TempDir()
	levels := filepath.Join(dir, "levels")
	require.NoError(t, os.Mkdir(levels, 0o755))

	w, err := NewWatcher(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(levels, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(levels, "cave.yaml"), []byte("id: cave"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "cave", name)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for changed level")
	}
}

func TestWatcher_ReportsAfterWritesSettle(t *testing.T) {
	dir := t.TempDir()
	levels := filepath.Join(dir, "levels")
	require.NoError(t, os.Mkdir(levels, 0o755))
	file := filepath.Join(levels, "cave.yaml")
	require.NoError(t, os.WriteFile(file, []byte("id: cave"), 0o644))

	w, err := NewWatcher(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	// A truncate followed by the real content shortly after.
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	time.Sleep(debounce / 3)
	require.NoError(t, os.WriteFile(file, []byte("id: cave\nname: Cave"), 0o644))
	lastWrite := time.Now()

	select {
	case name := <-w.Events:
		assert.Equal(t, "cave", name)
		assert.GreaterOrEqual(t, time.Since(lastWrite), debounce-10*time.Millisecond,
			"reported only once the file went quiet")
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: Cave")
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for changed level")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("burst of writes reported twice, second event for %s", name)
	case <-time.After(3 * debounce):
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestWatcher_CloseTwice(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "levels"), 0o755))

	w, err := NewWatcher(dir, nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok, "events channel is closed")
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		file   string
		want   string
		wantOK bool
	}{
		{"/tmp/levels/demo.yaml", "demo", true},
		{"levels/Cave.YML", "Cave", true},
		{"levels/swing.tengo", "", false},
		{"levels/README", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, ok := levelName(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
