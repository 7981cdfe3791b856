package ports

import "time"

// JobSchedule describes one scheduled job.
type JobSchedule struct {
	Name        string
	Expression  string
	Description string
	NextRun     time.Time
}

// ScheduleStatus is a snapshot of the background scheduler.
type ScheduleStatus struct {
	Enabled   bool
	Schedules []JobSchedule
}

// ScheduleReporter exposes the scheduler state.
type ScheduleReporter interface {
	Status() ScheduleStatus
}
