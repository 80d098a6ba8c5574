package snapshot

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGroupRunsFunction(t *testing.T) {
	group := NewRunGroup()

	value, joined, err := group.Do("snap-1", func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, 42, value)
	assert.False(t, group.InFlight("snap-1"))
}

func TestRunGroupJoinsInFlightRun(t *testing.T) {
	group := NewRunGroup()

	release := make(chan struct{})
	started := make(chan struct{})
	var executions int32

	var wg sync.WaitGroup
	wg.Add(1)
	var firstValue interface{}
	go func() {
		defer wg.Done()
		firstValue, _, _ = group.Do("snap-1", func() (interface{}, error) {
			atomic.AddInt32(&executions, 1)
			close(started)
			<-release
			return "shared", nil
		})
	}()

	<-started
	assert.True(t, group.InFlight("snap-1"))

	wg.Add(1)
	var joined bool
	var secondValue interface{}
	go func() {
		defer wg.Done()
		secondValue, joined, _ = group.Do("snap-1", func() (interface{}, error) {
			atomic.AddInt32(&executions, 1)
			return "own", nil
		})
	}()

	// give the second caller time to block on the in-flight run
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&executions))
	assert.True(t, joined)
	assert.Equal(t, "shared", firstValue)
	assert.Equal(t, "shared", secondValue)
	assert.False(t, group.InFlight("snap-1"))
}

func TestRunGroupSeparateIDsRunIndependently(t *testing.T) {
	group := NewRunGroup()

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, _ = group.Do("snap-1", func() (interface{}, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started

	value, joined, err := group.Do("snap-2", func() (interface{}, error) {
		return "other", nil
	})
	require.NoError(t, err)
	assert.False(t, joined)
	assert.Equal(t, "other", value)

	close(release)
	wg.Wait()
}

func TestRunGroupPropagatesError(t *testing.T) {
	group := NewRunGroup()

	_, _, err := group.Do("snap-1", func() (interface{}, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
