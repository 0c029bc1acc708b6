package entities

type ApplicationForm struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email_shape"`
	ContactNumber string `validate:"required,contact_number"`
	Reason        string `validate:"required"`

	// Job is the posting being applied to, informational only.
	Job           *Job
	FromSavedJobs bool
}

func (f *ApplicationForm) Reset() {
	f.Name = ""
	f.Email = ""
	f.ContactNumber = ""
	f.Reason = ""
}
