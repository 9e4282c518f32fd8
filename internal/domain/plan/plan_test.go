package plan_test

import (
	"testing"
	"time"

	"github.com/touchline/scoutbase/internal/domain/plan"
	"github.com/touchline/scoutbase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAllowed(t *testing.T) {
	Convey("Feature gating follows the tier table", t, func() {
		So(plan.Allowed(types.TierFreemium, plan.FeaturePDFExport), ShouldBeFalse)
		So(plan.Allowed(types.TierFreemium, plan.FeatureVideoJobs), ShouldBeFalse)
		So(plan.Allowed(types.TierPro, plan.FeaturePDFExport), ShouldBeTrue)
		So(plan.Allowed(types.TierPro, plan.FeatureVideoJobs), ShouldBeTrue)
		So(plan.Allowed(types.TierEnterprise, plan.FeaturePDFExport), ShouldBeTrue)
		So(plan.Allowed(types.Tier("unknown"), plan.FeaturePDFExport), ShouldBeFalse)
	})
}

func TestLimitsIsACopy(t *testing.T) {
	Convey("Mutating the returned map must not leak into the table", t, func() {
		l := plan.Limits(types.TierPro)
		l[plan.QuotaReports] = 1
		So(plan.Limits(types.TierPro)[plan.QuotaReports], ShouldEqual, 500)
	})
}

func TestMeterAllow(t *testing.T) {
	Convey("Given a meter with a fixed clock", t, func() {
		now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
		m := plan.NewMeter(plan.WithClock(func() time.Time { return now }))

		Convey("Freemium orgs cannot export PDFs at all", func() {
			So(m.Allow("org-1", plan.QuotaPDFExports, types.TierFreemium), ShouldBeFalse)
		})

		Convey("Pro orgs are capped at the table limit", func() {
			for i := 0; i < 500; i++ {
				So(m.Allow("org-1", plan.QuotaReports, types.TierPro), ShouldBeTrue)
			}
			So(m.Allow("org-1", plan.QuotaReports, types.TierPro), ShouldBeFalse)
			So(m.Used("org-1", plan.QuotaReports), ShouldEqual, 500)
		})

		Convey("Counters are scoped per organization", func() {
			So(m.Allow("org-a", plan.QuotaVideoJobs, types.TierPro), ShouldBeTrue)
			So(m.Used("org-b", plan.QuotaVideoJobs), ShouldEqual, 0)
		})

		Convey("Enterprise is unlimited but still counted", func() {
			for i := 0; i < 3; i++ {
				So(m.Allow("org-e", plan.QuotaPDFExports, types.TierEnterprise), ShouldBeTrue)
			}
			So(m.Used("org-e", plan.QuotaPDFExports), ShouldEqual, 3)
		})

		Convey("Unknown quota keys are denied", func() {
			So(m.Allow("org-1", "teleports", types.TierEnterprise), ShouldBeFalse)
		})
	})
}

func TestMeterReleaseAndSeed(t *testing.T) {
	Convey("Given a meter with a fixed clock", t, func() {
		now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
		m := plan.NewMeter(plan.WithClock(func() time.Time { return now }))

		Convey("Release refunds a counted use", func() {
			So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeTrue)
			So(m.Used("org-1", plan.QuotaVideoJobs), ShouldEqual, 1)
			m.Release("org-1", plan.QuotaVideoJobs)
			So(m.Used("org-1", plan.QuotaVideoJobs), ShouldEqual, 0)
		})

		Convey("Release never goes below zero", func() {
			m.Release("org-1", plan.QuotaVideoJobs)
			So(m.Used("org-1", plan.QuotaVideoJobs), ShouldEqual, 0)
		})

		Convey("Seed restores persisted usage", func() {
			m.Seed("org-1", plan.QuotaVideoJobs, 49)
			So(m.Used("org-1", plan.QuotaVideoJobs), ShouldEqual, 49)
			So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeTrue)
			So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeFalse)
		})

		Convey("Seed never lowers a live counter", func() {
			So(m.Allow("org-1", plan.QuotaReports, types.TierPro), ShouldBeTrue)
			So(m.Allow("org-1", plan.QuotaReports, types.TierPro), ShouldBeTrue)
			m.Seed("org-1", plan.QuotaReports, 1)
			So(m.Used("org-1", plan.QuotaReports), ShouldEqual, 2)
		})
	})
}

func TestMeterMonthlyReset(t *testing.T) {
	Convey("Given a meter whose clock crosses a month boundary", t, func() {
		now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
		m := plan.NewMeter(plan.WithClock(func() time.Time { return now }))

		for i := 0; i < 50; i++ {
			So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeTrue)
		}
		So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeFalse)

		Convey("When the month rolls over the counters reset", func() {
			now = time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
			So(m.Allow("org-1", plan.QuotaVideoJobs, types.TierPro), ShouldBeTrue)
			So(m.Used("org-1", plan.QuotaVideoJobs), ShouldEqual, 1)
		})
	})
}

func TestPeriod(t *testing.T) {
	got := plan.Period(time.Date(2026, 2, 28, 23, 59, 0, 0, time.FixedZone("X", 3600)))
	if got != "2026-02" {
		t.Errorf("Period = %q, want 2026-02", got)
	}
}
