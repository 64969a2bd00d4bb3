package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsMonotonicTimestamps(t *testing.T) {
	log := NewLog("")
	for i := 0; i < 100; i++ {
		require.NoError(t, log.Append(NewErrorOccurred("e", true)))
	}

	events := log.All()
	require.Len(t, events, 100)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp),
			"timestamp at %d went backwards", i)
	}
}

func TestAppendIgnoresCallerTimestamp(t *testing.T) {
	log := NewLog("")
	e := NewRunStarted("task", nil)
	e.Timestamp = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, log.Append(e))

	got := log.All()[0]
	assert.True(t, got.Timestamp.Year() > 1999, "append must assign its own timestamp")
}

func TestConcurrentAppend(t *testing.T) {
	log := NewLog("")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Append(NewActionCompleted("id", "search", "ok", true, 0))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 500, log.Len())
	events := log.All()
	for i := 1; i < len(events); i++ {
		require.False(t, events[i].Timestamp.Before(events[i-1].Timestamp))
	}
}

func TestSinceStrictlyAfter(t *testing.T) {
	log := NewLog("")
	require.NoError(t, log.Append(NewRunStarted("task", nil)))
	cut := log.All()[0].Timestamp

	time.Sleep(time.Millisecond)
	require.NoError(t, log.Append(NewErrorOccurred("later", true)))

	after := log.Since(cut)
	require.Len(t, after, 1)
	assert.Equal(t, EventErrorOccurred, after[0].Kind)

	assert.Len(t, log.Since(cut.Add(-time.Second)), 2)
}

func TestPersistenceAcrossHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	t0 := time.Now().Add(-time.Second)

	first := NewLog(path)
	require.NoError(t, first.Append(NewRunStarted("persisted task", []string{"search", "done"})))

	second := NewLog(path)
	require.NoError(t, second.Load())
	require.Equal(t, 1, second.Len())
	require.NoError(t, second.Append(NewRunCompleted("done", true, 2, time.Second)))

	events := second.Since(t0)
	require.Len(t, events, 2)
	assert.Equal(t, EventRunStarted, events[0].Kind)
	assert.Equal(t, EventRunCompleted, events[1].Kind)
	assert.Equal(t, "persisted task", events[0].RunStarted.Task)
}

func TestLoadMissingFileYieldsEmptyLog(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "absent.ndjson"))
	require.NoError(t, log.Load())
	assert.Equal(t, 0, log.Len())
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")

	e1, err := json.Marshal(NewRunStarted("task", nil))
	require.NoError(t, err)
	e2, err := json.Marshal(NewRunCompleted("ok", true, 1, 0))
	require.NoError(t, err)
	content := string(e1) + "\n\n" + string(e2) + "\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	log := NewLog(path)
	require.NoError(t, log.Load())
	require.Equal(t, 2, log.Len())
	assert.Equal(t, EventRunCompleted, log.All()[1].Kind)
}

func TestAppendRewritesFullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	log := NewLog(path)

	require.NoError(t, log.Append(NewRunStarted("task", nil)))
	require.NoError(t, log.Append(NewErrorOccurred("oops", true)))

	fresh := NewLog(path)
	require.NoError(t, fresh.Load())
	require.Equal(t, 2, fresh.Len())

	state := fresh.Derive()
	assert.Equal(t, "task", state.Task)
	assert.Equal(t, []string{"oops"}, state.Errors)
}
