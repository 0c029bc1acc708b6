package events

import "github.com/maxaizer/job-finder/internal/entities"

var ApplicationSubmittedTopic = "ApplicationSubmittedEvent"

type ApplicationSubmitted struct {
	Applicant     string
	Job           *entities.Job
	FromSavedJobs bool
}
