package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPool(t *testing.T) {
	p := NewPool(3, 0, nil)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolDrainsQueueOnStop(t *testing.T) {
	p := NewPool(1, 10, zap.NewNop())
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func() { n.Add(1) }))
	}
	p.Stop()
	require.Equal(t, int32(10), n.Load())
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(0, -1, nil)
	p.Stop()
	p.Stop()
	require.ErrorIs(t, p.Submit(func() {}), ErrStopped)
}

func TestPoolRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	p := NewPool(1, 2, zap.New(core))
	ran := false
	require.NoError(t, p.Submit(func() { panic("boom") }))
	require.NoError(t, p.Submit(nil))
	require.NoError(t, p.Submit(func() { ran = true }))
	p.Stop()
	require.True(t, ran)
	require.Equal(t, 1, logs.FilterMessage("background task panicked").Len())
}
