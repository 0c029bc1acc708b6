package bot

import (
	"fmt"
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/services"
	"github.com/pkg/errors"
)

const saveJobCommandName = "Save job"

const (
	unsavePrompt        = "Are you sure you want to remove this job from saved?"
	removedMessage      = "The job has been removed from your saved list."
	keptMessage         = "The job is still saved."
	staleJobMessage     = "This job is no longer in the list. Refresh and try again."
	expiredConfirmation = "The confirmation has expired, nothing was changed."
)

var errNoJobs = errors.New("no jobs to choose from")

type saveJobCommand struct {
	baseCommand
	session *services.Session
	input   inputHandler
	token   services.ConfirmationToken
}

func newSaveJobCommand(api apiInterface, chatID int64, session *services.Session) (*saveJobCommand, error) {

	jobs := session.View.Filtered()
	if len(jobs) == 0 {
		return nil, errNoJobs
	}

	cmd := &saveJobCommand{baseCommand: baseCommand{api: api, chatID: chatID}, session: session}
	cmd.input = newJobInput(chatID, "Enter the number of the job to save or unsave:", jobs,
		session.Saved.IsSaved, cmd.toggle)
	return cmd, nil
}

func (c *saveJobCommand) Run() {
	c.send(c.input.InitMessage())
}

func (c *saveJobCommand) OnUserInput(input string) {
	c.send(c.input.HandleInput(input))
}

func (c *saveJobCommand) toggle(job entities.Job) {

	outcome, token, err := c.session.ToggleSave(job.ID)
	if err != nil {
		c.finish(staleJobMessage)
		return
	}

	switch outcome {
	case services.Saved:
		c.finish(fmt.Sprintf("\"%s\" has been saved.", job.Title))
	case services.UnsaveRequested:
		c.token = token
		c.input = newConfirmationInput(c.chatID, unsavePrompt, c.onConfirmation)
		c.send(c.input.InitMessage())
	}
}

func (c *saveJobCommand) onConfirmation(confirmed bool) {

	if !confirmed {
		c.session.Saved.CancelRemoval(c.token)
		c.finish(keptMessage)
		return
	}

	if _, err := c.session.Saved.ConfirmRemoval(c.token); err != nil {
		c.finish(expiredConfirmation)
		return
	}
	c.finish(removedMessage)
}
