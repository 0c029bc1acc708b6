package empllo

// JobPosting is a feed entry as it comes over the wire. The feed carries no id.
type JobPosting struct {
	Title        string `json:"title"`
	MainCategory string `json:"mainCategory"`
	CompanyName  string `json:"companyName"`
	JobType      string `json:"jobType"`
}

type getJobsResponse struct {
	Jobs *[]JobPosting `json:"jobs"`
}
