package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/touchline/scoutbase/internal/adapters/mq/queue"
	"github.com/touchline/scoutbase/internal/adapters/mq/worker"
	"github.com/touchline/scoutbase/internal/adapters/repository/memory"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func seedVideoAndJob(t *testing.T, store *memory.Store, tagMinutes ...int) queue.Job {
	t.Helper()
	ctx := context.Background()

	v := &model.Video{ID: "v1", OrgID: "org-1", Title: "vs Rivals", DurationSec: 5400, CreatedAt: time.Now().UTC()}
	if err := store.CreateVideo(ctx, v); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	for i, m := range tagMinutes {
		tag := &model.HighlightTag{ID: string(rune('a' + i)), VideoID: "v1", Minute: m, Event: types.EventGoal}
		if err := store.AddTag(ctx, tag); err != nil {
			t.Fatalf("seed tag: %v", err)
		}
	}
	j := model.ProcessingJob{
		ID: "j1", SubmissionID: "sub-1", OrgID: "org-1", VideoID: "v1",
		Status: types.JobQueued, SubmittedAt: time.Now().UTC(),
	}
	if err := store.CreateJob(ctx, &j); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

func waitForStatus(t *testing.T, store *memory.Store, id string, want types.JobStatus) *model.ProcessingJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := store.GetJob(context.Background(), "org-1", id)
		if err == nil && j.Status == want {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return nil
}

func TestWorkerProcessesJob(t *testing.T) {
	Convey("Given a running worker over a seeded store", t, func() {
		store := memory.NewStore()
		job := seedVideoAndJob(t, store, 3, 41, 77)

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		proc := worker.NewClipProcessor(store, worker.WithLatencyRange(1, 2))
		w := worker.NewInMemoryWorker(q, proc, store, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		So(q.Enqueue(ctx, job), ShouldBeTrue)

		Convey("The job finishes with one clip per tag", func() {
			done := waitForStatus(t, store, "j1", types.JobDone)
			So(done.Result.ClipCount, ShouldEqual, 3)
			So(done.Result.ThumbnailCount, ShouldEqual, 3)
			So(done.Result.RenderedSec, ShouldEqual, 36)
			So(done.StartedAt.IsZero(), ShouldBeFalse)
			So(done.FinishedAt.IsZero(), ShouldBeFalse)
			So(done.Error, ShouldBeBlank)
		})

		Convey("Shutdown returns once the worker stops", func() {
			shCtx, shCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shCancel()
			So(w.Shutdown(shCtx), ShouldBeNil)
		})
	})
}

func TestWorkerRecordsFailure(t *testing.T) {
	Convey("Given a job whose video is missing", t, func() {
		store := memory.NewStore()
		j := model.ProcessingJob{
			ID: "j1", SubmissionID: "sub-1", OrgID: "org-1", VideoID: "ghost",
			Status: types.JobQueued, SubmittedAt: time.Now().UTC(),
		}
		So(store.CreateJob(context.Background(), &j), ShouldBeNil)

		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		proc := worker.NewClipProcessor(store, worker.WithLatencyRange(1, 2))
		w := worker.NewInMemoryWorker(q, proc, store)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		So(q.Enqueue(ctx, j), ShouldBeTrue)

		Convey("The job ends failed with the cause recorded", func() {
			failed := waitForStatus(t, store, "j1", types.JobFailed)
			So(failed.Error, ShouldContainSubstring, "loading video")
			So(failed.FinishedAt.IsZero(), ShouldBeFalse)
		})
	})
}

func TestPoolDrainsQueueOnShutdown(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	v := &model.Video{ID: "v1", OrgID: "org-1", Title: "vs Rivals", DurationSec: 5400, CreatedAt: time.Now().UTC()}
	if err := store.CreateVideo(ctx, v); err != nil {
		t.Fatalf("seed video: %v", err)
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(32))
	proc := worker.NewClipProcessor(store, worker.WithLatencyRange(1, 2))
	pool := worker.NewPool(4, q, proc, store)

	ids := []string{"j1", "j2", "j3", "j4", "j5", "j6"}
	for _, id := range ids {
		j := model.ProcessingJob{
			ID: id, SubmissionID: "sub-" + id, OrgID: "org-1", VideoID: "v1",
			Status: types.JobQueued, SubmittedAt: time.Now().UTC(),
		}
		if err := store.CreateJob(ctx, &j); err != nil {
			t.Fatalf("seed job: %v", err)
		}
		if !q.Enqueue(ctx, j) {
			t.Fatalf("enqueue %s", id)
		}
	}

	pool.Start(ctx)

	shCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Shutdown(shCtx); err != nil {
		t.Fatalf("pool shutdown: %v", err)
	}

	for _, id := range ids {
		j, err := store.GetJob(ctx, "org-1", id)
		if err != nil {
			t.Fatalf("get job %s: %v", id, err)
		}
		if !j.Status.Terminal() {
			t.Errorf("job %s left in status %s", id, j.Status)
		}
	}
}

func TestProcessorIsDeterministic(t *testing.T) {
	store := memory.NewStore()
	job := seedVideoAndJob(t, store, 10, 20)

	proc := worker.NewClipProcessor(store, worker.WithLatencyRange(1, 2))
	ctx := context.Background()

	first, err := proc.Process(ctx, &job)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	second, err := proc.Process(ctx, &job)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if first != second {
		t.Errorf("results differ across reruns: %+v vs %+v", first, second)
	}
}

func TestProcessorHonorsCancellation(t *testing.T) {
	store := memory.NewStore()
	job := seedVideoAndJob(t, store, 1)

	proc := worker.NewClipProcessor(store, worker.WithLatencyRange(500, 500))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := proc.Process(ctx, &job)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
