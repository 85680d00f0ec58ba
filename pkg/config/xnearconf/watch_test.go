package xnearconf

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_FileChange_TriggersReloadCallback(t *testing.T) {
	path := writeConfig(t, "near.yaml", "channel: before\n")
	loader, err := Load(path)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []Settings
	watcher, err := Watch(loader, func(s Settings, cbErr error) {
		require.NoError(t, cbErr)
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	watcher.StartAsync()

	require.NoError(t, os.WriteFile(path, []byte("channel: after\n"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Channel == "after"
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, "after", loader.Settings().Channel)
}

func TestWatch_FromBytesLoader_ReturnsError(t *testing.T) {
	loader, err := LoadBytes([]byte("{}"), FormatJSON)
	require.NoError(t, err)

	_, err = Watch(loader, nil)
	assert.ErrorIs(t, err, ErrNotReloadable)
}

func TestWatcher_Stop_IsIdempotent(t *testing.T) {
	loader, err := Load(writeConfig(t, "near.yaml", "channel: c\n"))
	require.NoError(t, err)

	watcher, err := Watch(loader, nil)
	require.NoError(t, err)

	watcher.StartAsync()
	require.NoError(t, watcher.Stop())
	require.NoError(t, watcher.Stop())
}
