package events

import "github.com/maxaizer/job-finder/internal/entities"

var SavedJobsChangedTopic = "SavedJobsChangedEvent"

// SavedJobsChanged is published after every mutation of the saved set.
// Subscribers must not publish on the same bus from the handler.
type SavedJobsChanged struct {
	Job   entities.Job
	Saved bool
	Total int
}
