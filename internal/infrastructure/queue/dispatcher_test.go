package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeleter struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (r *recordingDeleter) Delete(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return r.err
}

func TestDispatcher_DeletesEveryQueuedURL(t *testing.T) {
	deleter := &recordingDeleter{}
	d := NewDispatcher(3, deleter, zerolog.Nop())
	d.Start(context.Background())

	want := []string{"https://cdn.test/a", "https://cdn.test/b", "https://cdn.test/c", "https://cdn.test/d"}
	for _, u := range want {
		d.Enqueue(u)
	}
	d.Enqueue("")
	d.Stop()

	got := append([]string(nil), deleter.urls...)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestDispatcher_FailuresDoNotStopWorkers(t *testing.T) {
	deleter := &recordingDeleter{err: errors.New("access denied")}
	d := NewDispatcher(1, deleter, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue("https://cdn.test/a")
	d.Enqueue("https://cdn.test/b")
	d.Stop()

	assert.Len(t, deleter.urls, 2)
}

func TestDispatcher_EnqueueAfterStopIsDropped(t *testing.T) {
	deleter := &recordingDeleter{}
	d := NewDispatcher(2, deleter, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()

	require.NotPanics(t, func() { d.Enqueue("https://cdn.test/late") })
	assert.Empty(t, deleter.urls)
	d.Stop()
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingDeleter{}, zerolog.Nop())
	first := d.shardIndex("https://cdn.test/images/x.png")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("https://cdn.test/images/x.png"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingDeleter{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}
