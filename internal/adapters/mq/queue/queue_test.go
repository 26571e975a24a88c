package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/faceoff/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory job queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4), queue.WithBufferSize(4))

		Convey("When enqueuing a job", func() {
			ok := q.Enqueue(ctx, queue.Job{Username: "carol"})

			Convey("Then it should be accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("And a consumer should receive it", func() {
				select {
				case job := <-q.Dequeue(ctx):
					So(job.Username, ShouldEqual, "carol")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for job")
				}
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 4; i++ {
				So(q.Enqueue(ctx, queue.Job{Username: "bulk"}), ShouldBeTrue)
			}

			Convey("Then further enqueues should be refused", func() {
				So(q.Enqueue(ctx, queue.Job{Username: "overflow"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 4)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and refuse jobs", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{Username: "late"}), ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel should drain and close", func() {
				ch := q.Dequeue(ctx)
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for channel close")
				}
			})
		})
	})
}
