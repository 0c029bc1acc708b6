package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func validForm() entities.ApplicationForm {
	return entities.ApplicationForm{
		Name:          "Juan Dela Cruz",
		Email:         "juan@example.com",
		ContactNumber: "09171234567",
		Reason:        "I like building things.",
	}
}

func submitErrors(t *testing.T, form entities.ApplicationForm) ValidationErrors {
	_, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
	var validationErrors ValidationErrors
	assert.True(t, errors.As(err, &validationErrors), "expected validation errors, got %v", err)
	return validationErrors
}

func Test_ApplicationSubmitter_WhenFormIsValid_ShouldAcknowledge(t *testing.T) {

	assert := assert.New(t)

	bus := EventBus.New()
	var submitted []events.ApplicationSubmitted
	assert.NoError(bus.Subscribe(events.ApplicationSubmittedTopic, func(event events.ApplicationSubmitted) {
		submitted = append(submitted, event)
	}))

	job := jobsWithTitles("Go developer")[0]
	form := validForm()
	form.Job = &job

	ack, err := NewApplicationSubmitter(bus).Submit(form)

	assert.NoError(err)
	assert.Equal(&job, ack.Job)
	assert.False(ack.FromSavedJobs)
	assert.Len(submitted, 1)
	assert.Equal("Juan Dela Cruz", submitted[0].Applicant)
	assert.Equal("Juan Dela Cruz", form.Name)
}

func Test_ApplicationSubmitter_WhenEmailMalformed_ShouldReportEmailError(t *testing.T) {

	assert := assert.New(t)

	form := validForm()
	form.Email = "not-an-email"

	validationErrors := submitErrors(t, form)

	assert.Equal(ValidationErrors{{Field: "email", Kind: MalformedEmail}}, validationErrors)
	assert.Equal(MalformedEmail, validationErrors.First().Kind)
	assert.Equal("Please enter a valid email address.", validationErrors.First().Message())
}

func Test_ApplicationSubmitter_ShouldReportEveryFailingField(t *testing.T) {

	assert := assert.New(t)

	form := entities.ApplicationForm{
		Email:         "juan@example",
		ContactNumber: "12345",
	}

	validationErrors := submitErrors(t, form)

	assert.Equal([]string{"name", "email", "contact number", "reason"}, validationErrors.Fields())
	assert.Equal(ValidationError{Field: "name", Kind: MissingField}, validationErrors.First())
	assert.Equal("All fields are required.", validationErrors.First().Message())
}

func Test_ValidationErrors_First_ShouldPreferEmailOverContactNumber(t *testing.T) {

	assert := assert.New(t)

	form := validForm()
	form.Email = "juan"
	form.ContactNumber = "abc"

	validationErrors := submitErrors(t, form)

	assert.Len(validationErrors, 2)
	assert.Equal(MalformedEmail, validationErrors.First().Kind)
}

func Test_ApplicationSubmitter_ContactNumberShapes(t *testing.T) {

	cases := map[string]bool{
		"09171234567":    true,
		"+639171234567":  true,
		"+12025550123":   true,
		"2025550123":     true,
		"+447911123456":  true,
		"091712345":      false,
		"+63917123456":   false,
		"+4479111234567": false,
		"0917-123-4567":  false,
		"phone":          false,
	}

	for number, valid := range cases {
		t.Run(number, func(t *testing.T) {
			form := validForm()
			form.ContactNumber = number

			_, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
			if valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, ValidationErrors{{Field: "contact number", Kind: MalformedContactNumber}}, err)
			}
		})
	}
}

func Test_ApplicationSubmitter_EmailShapes(t *testing.T) {

	cases := map[string]bool{
		"juan@example.com":   true,
		"j.cruz@mail.co.uk":  true,
		"juan@example":       false,
		"juan example@x.com": false,
		"@example.com":       false,
	}

	for email, valid := range cases {
		t.Run(email, func(t *testing.T) {
			form := validForm()
			form.Email = email

			_, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
			assert.Equal(t, valid, err == nil)
		})
	}
}

func Test_ApplicationSubmitter_WhenJobContextIsEmpty_ShouldNotValidateIt(t *testing.T) {

	form := validForm()
	form.Job = &entities.Job{}

	_, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
	assert.NoError(t, err)
}

func Test_Acknowledgement_Confirm_WhenFromSavedJobs_ShouldClearFormAndNavigateToRoot(t *testing.T) {

	assert := assert.New(t)

	form := validForm()
	form.FromSavedJobs = true

	ack, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
	assert.NoError(err)

	assert.Equal(NavigateToRoot, ack.Confirm(&form))
	assert.Empty(form.Name)
	assert.Empty(form.Email)
	assert.Empty(form.ContactNumber)
	assert.Empty(form.Reason)
}

func Test_Acknowledgement_Confirm_WhenFromBrowse_ShouldStayOnScreen(t *testing.T) {

	assert := assert.New(t)

	form := validForm()
	ack, err := NewApplicationSubmitter(EventBus.New()).Submit(form)
	assert.NoError(err)

	assert.Equal(StayOnScreen, ack.Confirm(&form))
	assert.Empty(form.Name)
}
