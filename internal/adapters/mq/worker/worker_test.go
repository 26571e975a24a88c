package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/faceoff/internal/adapters/mq/queue"
	"github.com/okian/faceoff/internal/adapters/mq/worker"
	"github.com/okian/faceoff/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockCaster struct {
	mu     sync.Mutex
	jobs   []queue.Job
	castFn func(job queue.Job) error
}

func (m *mockCaster) Cast(ctx context.Context, job queue.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	if m.castFn != nil {
		return m.castFn(job)
	}
	return nil
}

func (m *mockCaster) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestInMemoryWorker(t *testing.T) {
	Convey("Given a worker consuming from a queue", t, func() {
		// Initialize logging for tests
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16), queue.WithBufferSize(16))
		caster := &mockCaster{}
		w := worker.NewInMemoryWorker(q, caster, worker.WithName("test-worker"))

		Convey("When jobs are enqueued", func() {
			go w.Run(ctx)

			So(q.Enqueue(ctx, queue.Job{Username: "carol"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Username: "dave", Categories: []string{"mid"}}), ShouldBeTrue)

			Convey("Then the caster should receive them all", func() {
				waitFor(t, func() bool { return caster.count() == 2 })
				So(q.Close(), ShouldBeNil)
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When the caster fails", func() {
			caster.castFn = func(queue.Job) error { return errors.New("boom") }
			go w.Run(ctx)

			So(q.Enqueue(ctx, queue.Job{Username: "carol"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Username: "dave"}), ShouldBeTrue)

			Convey("Then the worker should keep consuming", func() {
				waitFor(t, func() bool { return caster.count() == 2 })
				So(q.Close(), ShouldBeNil)
				So(w.Shutdown(ctx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a worker pool", t, func() {
		// Initialize logging for tests
		_ = logger.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64), queue.WithBufferSize(64))
		caster := &mockCaster{}
		pool := worker.NewPool(4, q, caster)

		Convey("When jobs flow through the pool", func() {
			pool.Start(ctx)

			for i := 0; i < 20; i++ {
				So(q.Enqueue(ctx, queue.Job{Username: "voter"}), ShouldBeTrue)
			}

			Convey("Then every job should be processed exactly once", func() {
				waitFor(t, func() bool { return caster.count() == 20 })
				So(pool.Shutdown(ctx), ShouldBeNil)
				So(caster.count(), ShouldEqual, 20)
			})
		})

		Convey("When the pool shuts down with an idle queue", func() {
			pool.Start(ctx)

			Convey("Then shutdown should close the queue and return", func() {
				So(pool.Shutdown(ctx), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
