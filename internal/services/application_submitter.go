package services

import (
	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/events"
	"github.com/maxaizer/job-finder/internal/logger"
	"github.com/maxaizer/job-finder/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	emailShapePattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	contactNumberPattern = regexp.MustCompile(`^(09\d{9}|(\+63|0)9\d{9}|(\+1)?\d{10}|(\+44)?\d{10})$`)
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShapePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("contact_number", func(fl validator.FieldLevel) bool {
		return contactNumberPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

type ValidationErrorKind int

// Kinds are ordered by reporting priority.
const (
	MissingField ValidationErrorKind = iota
	MalformedEmail
	MalformedContactNumber
)

type ValidationError struct {
	Field string
	Kind  ValidationErrorKind
}

func (e ValidationError) Error() string {
	return e.Message()
}

// Message is the text shown to the applicant.
func (e ValidationError) Message() string {
	switch e.Kind {
	case MalformedEmail:
		return "Please enter a valid email address."
	case MalformedContactNumber:
		return "Enter a valid PH, US, or UK number."
	default:
		return "All fields are required."
	}
}

// ValidationErrors holds every failing field of a form in field order.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	return strings.Join(lo.Map(e, func(err ValidationError, _ int) string {
		return err.Message()
	}), "; ")
}

// First returns the single error to report: missing fields before a malformed
// email before a malformed contact number.
func (e ValidationErrors) First() ValidationError {
	sorted := append(ValidationErrors(nil), e...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Kind < sorted[j].Kind
	})
	return sorted[0]
}

func (e ValidationErrors) Fields() []string {
	return lo.Uniq(lo.Map(e, func(err ValidationError, _ int) string {
		return err.Field
	}))
}

type NavigationAction int

const (
	StayOnScreen NavigationAction = iota
	NavigateToRoot
)

type Acknowledgement struct {
	Job           *entities.Job
	FromSavedJobs bool
	SubmittedAt   time.Time
}

// Confirm is called once the applicant dismisses the acknowledgement. The form
// is cleared and the caller learns where to go next.
func (a Acknowledgement) Confirm(form *entities.ApplicationForm) NavigationAction {
	form.Reset()
	if a.FromSavedJobs {
		return NavigateToRoot
	}
	return StayOnScreen
}

type ApplicationSubmitter struct {
	bus EventBus.Bus
}

func NewApplicationSubmitter(bus EventBus.Bus) *ApplicationSubmitter {
	return &ApplicationSubmitter{bus: bus}
}

// Submit validates the form and, when every field is valid, acknowledges it.
// Nothing is sent anywhere; the form is left untouched either way.
func (s *ApplicationSubmitter) Submit(form entities.ApplicationForm) (Acknowledgement, error) {

	if err := formValidator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return Acknowledgement{}, errors.Wrap(err, "failed to validate application")
		}

		result := ValidationErrors(lo.Map(fieldErrors, func(fe validator.FieldError, _ int) ValidationError {
			return toValidationError(fe)
		}))
		metrics.ApplicationsCounter.WithLabelValues("rejected").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).
			Debugf("application rejected, fields: %v", result.Fields())
		return Acknowledgement{}, result
	}

	metrics.ApplicationsCounter.WithLabelValues("accepted").Inc()
	log.Infof("application accepted, from saved jobs: %v", form.FromSavedJobs)

	s.bus.Publish(events.ApplicationSubmittedTopic, events.ApplicationSubmitted{
		Applicant:     form.Name,
		Job:           form.Job,
		FromSavedJobs: form.FromSavedJobs,
	})

	return Acknowledgement{
		Job:           form.Job,
		FromSavedJobs: form.FromSavedJobs,
		SubmittedAt:   time.Now(),
	}, nil
}

func toValidationError(fe validator.FieldError) ValidationError {
	field := fieldNames[fe.Field()]
	switch fe.Tag() {
	case "email_shape":
		return ValidationError{Field: field, Kind: MalformedEmail}
	case "contact_number":
		return ValidationError{Field: field, Kind: MalformedContactNumber}
	default:
		return ValidationError{Field: field, Kind: MissingField}
	}
}

var fieldNames = map[string]string{
	"Name":          "name",
	"Email":         "email",
	"ContactNumber": "contact number",
	"Reason":        "reason",
}
