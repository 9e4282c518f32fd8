package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/touchline/scoutbase/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given an empty deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("The first sighting records, the second reports seen", func() {
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("Distinct ids are independent", func() {
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "sub-2"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 2)
		})

		Convey("Unrecord allows a retry", func() {
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
			d.Unrecord(ctx, "sub-1")
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
		})

		Convey("Unrecord of an unknown id is a no-op", func() {
			d.Unrecord(ctx, "ghost")
			So(d.Size(), ShouldEqual, 0)
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		for i := 1; i <= 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)), ShouldBeFalse)
		}

		Convey("Inserting a fourth evicts the oldest", func() {
			So(d.SeenAndRecord(ctx, "sub-4"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
			// sub-1 was evicted, so it records as new again.
			So(d.SeenAndRecord(ctx, "sub-1"), ShouldBeFalse)
		})

		Convey("Unrecorded ids do not count against the bound", func() {
			d.Unrecord(ctx, "sub-2")
			So(d.SeenAndRecord(ctx, "sub-4"), ShouldBeFalse)
			So(d.Size(), ShouldEqual, 3)
			// sub-1 and sub-3 survived the fill.
			So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeTrue)
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	recorded := 0

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if !d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)) {
					mu.Lock()
					recorded++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// Every id must have been recorded exactly once across all goroutines.
	if recorded != 100 {
		t.Errorf("expected 100 unique recordings, got %d", recorded)
	}
	if d.Size() != 100 {
		t.Errorf("expected size 100, got %d", d.Size())
	}
}
