package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pages/internal/adapters/watcher"
)

// batches collects debouncer callbacks, which run on their own goroutine.
type batches struct {
	mu    sync.Mutex
	calls [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, paths)
}

func (b *batches) get() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.calls...)
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/project/src/index.html")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		calls := got.get()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/index.html"}, calls[0])
	})
}

func TestDebouncer_Add_CoalescedAndSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/project/src/c.scss")
		d.Add("/project/src/a.scss")
		d.Add("/project/src/b.scss")
		d.Add("/project/src/a.scss")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		calls := got.get()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/a.scss", "/project/src/b.scss", "/project/src/c.scss"}, calls[0])
	})
}

func TestDebouncer_Add_ResetsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/a")
		time.Sleep(80 * time.Millisecond)
		d.Add("/b")
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, got.get())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/a", "/b"}}, got.get())
	})
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(50*time.Millisecond, got.record)

		d.Add("/first")
		time.Sleep(100 * time.Millisecond)
		d.Add("/second")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/first"}, {"/second"}}, got.get())
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(time.Hour, got.record)

		d.Add("/b")
		d.Add("/a")
		d.Flush()

		assert.Equal(t, [][]string{{"/a", "/b"}}, got.get())

		time.Sleep(2 * time.Hour)
		synctest.Wait()

		assert.Len(t, got.get(), 1)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var got batches
	d := watcher.NewDebouncer(time.Second, got.record)

	d.Flush()

	assert.Empty(t, got.get())
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(50*time.Millisecond, got.record)

		d.Add("/pending")
		d.Stop()
		d.Add("/after")

		time.Sleep(time.Second)
		synctest.Wait()

		assert.Empty(t, got.get())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)

		d.Add("/x")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()

		d.Add("/y")
		d.Flush()
	})
}
