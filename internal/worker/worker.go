// File: internal/worker/worker.go
package worker

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped Stop 之後不再接受任務
var ErrStopped = errors.New("worker: pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool 固定大小的背景工作池，用來在回應寫出後執行寄信等工作
type Pool interface {
	Submit(Task) error
	Stop()
}

// NewPool creates a pool with n workers and a queue of size queue.
// n<=0 defaults to 1; queue<0 defaults to 0 (unbuffered).
func NewPool(n, queue int, log *zap.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	if queue < 0 {
		queue = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	p := &pool{jobs: make(chan Task, queue), log: log}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	mu      sync.RWMutex
	stopped bool
	jobs    chan Task
	wg      sync.WaitGroup
	log     *zap.Logger
}

// run 執行單一任務；panic 只記錄，不影響其他 worker
func (p *pool) run(job Task) {
	if job == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("background task panicked", zap.Any("panic", r))
		}
	}()
	job()
}

// Submit 排入任務；佇列滿時阻塞直到有 worker 空出
func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	p.jobs <- t
	return nil
}

// Stop 關閉佇列並等待已排入的任務全部完成
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
