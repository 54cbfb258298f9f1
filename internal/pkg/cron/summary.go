package cron

import (
	"context"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/summary"
)

// SummaryJobs refreshes the pre-aggregated attendance_summaries rows that
// the dashboards read.
type SummaryJobs struct {
	summaryService summary.SummaryService
}

func NewSummaryJobs(summaryService summary.SummaryService) *SummaryJobs {
	return &SummaryJobs{summaryService: summaryService}
}

func (j *SummaryJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("rebuild_attendance_summaries", 1*time.Hour, j.RebuildCurrentMonth)
}

// RebuildCurrentMonth recomputes the current month's summary for every
// user with attendance activity this month.
func (j *SummaryJobs) RebuildCurrentMonth(ctx context.Context) error {
	return j.summaryService.RebuildCurrentMonth(ctx)
}
