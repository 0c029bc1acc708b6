package events

import "github.com/maxaizer/job-finder/internal/entities"

var JobsFetchedTopic = "JobsFetchedEvent"

type JobsFetched struct {
	Sequence uint64
	Jobs     []entities.Job
}

var JobsFetchFailedTopic = "JobsFetchFailedEvent"

type JobsFetchFailed struct {
	Sequence uint64
	Message  string
	Err      error
}
