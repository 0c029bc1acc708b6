package bot

import (
	"fmt"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/logger"
	"github.com/maxaizer/job-finder/internal/services"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"strings"
)

const applyCommandName = "Apply"

const acknowledgeOption = "OK"

type applicationSubmitter interface {
	Submit(form entities.ApplicationForm) (services.Acknowledgement, error)
}

type formField struct {
	name   string
	prompt string
	set    func(form *entities.ApplicationForm, value string)
}

var formFields = []formField{
	{"name", "Enter your full name.", func(f *entities.ApplicationForm, v string) { f.Name = v }},
	{"email", "Enter your email address.", func(f *entities.ApplicationForm, v string) { f.Email = v }},
	{"contact number", "Enter your contact number (PH, US or UK).", func(f *entities.ApplicationForm, v string) { f.ContactNumber = v }},
	{"reason", "Why should we hire you?", func(f *entities.ApplicationForm, v string) { f.Reason = v }},
}

type applyCommand struct {
	baseCommand
	submitter       applicationSubmitter
	form            entities.ApplicationForm
	inputHandlers   []inputHandler
	curHandlerIndex int
	fixing          bool
	ack             *services.Acknowledgement
	ackInput        inputHandler
}

func newApplyCommand(api apiInterface, chatID int64, submitter applicationSubmitter, job *entities.Job,
	fromSavedJobs bool) *applyCommand {

	cmd := &applyCommand{
		baseCommand: baseCommand{api: api, chatID: chatID},
		submitter:   submitter,
		form:        entities.ApplicationForm{Job: job, FromSavedJobs: fromSavedJobs},
	}

	cmd.inputHandlers = lo.Map(formFields, func(field formField, _ int) inputHandler {
		return newTextInput(chatID, field.prompt, func(input string) {
			field.set(&cmd.form, input)
			cmd.curHandlerIndex++
		})
	})
	cmd.ackInput = newChoiceInput(chatID, "Application submitted! Thank you for applying.",
		[]string{acknowledgeOption}, func(string) { cmd.onAcknowledged() })
	return cmd
}

func (c *applyCommand) Run() {
	if job := c.form.Job; job != nil {
		c.send(botApi.NewMessage(c.chatID, fmt.Sprintf("Applying for \"%s\" at %s.", job.Title, job.CompanyName)))
	}
	c.send(c.inputHandlers[0].InitMessage())
}

func (c *applyCommand) OnUserInput(input string) {

	if c.ack != nil {
		c.send(c.ackInput.HandleInput(input))
		return
	}

	previousIndex := c.curHandlerIndex
	msg := c.inputHandlers[c.curHandlerIndex].HandleInput(input)

	if previousIndex == c.curHandlerIndex {
		c.send(msg)
		return
	}

	if c.fixing || c.curHandlerIndex >= len(c.inputHandlers) {
		c.submit()
		return
	}

	c.send(c.inputHandlers[c.curHandlerIndex].InitMessage())
}

func (c *applyCommand) submit() {

	ack, err := c.submitter.Submit(c.form)
	if err == nil {
		c.fixing = false
		c.ack = &ack
		c.send(c.ackInput.InitMessage())
		return
	}

	var validationErrors services.ValidationErrors
	if !errors.As(err, &validationErrors) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).Error(err)
		c.finish("Internal error!")
		return
	}

	first := validationErrors.First()
	text := first.Message()
	if fields := validationErrors.Fields(); len(fields) > 1 {
		text += "\nPlease check: " + strings.Join(fields, ", ") + "."
	}
	c.send(botApi.NewMessage(c.chatID, text))

	c.fixing = true
	c.curHandlerIndex = lo.IndexOf(lo.Map(formFields, func(field formField, _ int) string {
		return field.name
	}), first.Field)
	if c.curHandlerIndex < 0 {
		c.curHandlerIndex = 0
	}
	c.send(c.inputHandlers[c.curHandlerIndex].InitMessage())
}

func (c *applyCommand) onAcknowledged() {

	navigation := c.ack.Confirm(&c.form)
	c.ack = nil
	c.curHandlerIndex = 0

	if navigation == services.NavigateToRoot {
		c.finish("Back to the job list.")
		return
	}

	c.send(botApi.NewMessage(c.chatID, "The form has been cleared."))
	c.send(c.inputHandlers[0].InitMessage())
}
