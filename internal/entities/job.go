package entities

// Job is a single posting of the feed. ID is minted locally at fetch time and
// is only unique within one session.
type Job struct {
	ID           string
	Title        string
	MainCategory string
	CompanyName  string
	JobType      string
}

func FindJob(jobs []Job, id string) (Job, bool) {
	for _, job := range jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}
