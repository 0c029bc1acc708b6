package bot

import (
	"github.com/maxaizer/job-finder/internal/entities"
	"github.com/maxaizer/job-finder/internal/services"
	"github.com/pkg/errors"
)

const savedJobsCommandName = "Saved jobs"

const (
	applyOption  = "Apply for this job"
	unsaveOption = "Remove from saved"
)

var errNoSavedJobs = errors.New("no saved jobs")

type savedJobsCommand struct {
	baseCommand
	session *services.Session
	input   inputHandler
	job     entities.Job
	apply   *applyCommand
}

func newSavedJobsCommand(api apiInterface, chatID int64, session *services.Session) (*savedJobsCommand, error) {

	jobs := session.SavedList.Focus()
	if len(jobs) == 0 {
		return nil, errNoSavedJobs
	}

	cmd := &savedJobsCommand{baseCommand: baseCommand{api: api, chatID: chatID}, session: session}
	cmd.input = newJobInput(chatID, "Saved jobs. Enter the number of a job:", jobs, nil, cmd.onJobChosen)
	return cmd, nil
}

func (c *savedJobsCommand) Run() {
	c.send(c.input.InitMessage())
}

func (c *savedJobsCommand) OnUserInput(input string) {
	if c.apply != nil {
		c.apply.OnUserInput(input)
		return
	}
	c.send(c.input.HandleInput(input))
}

func (c *savedJobsCommand) onJobChosen(job entities.Job) {
	c.job = job
	c.input = newChoiceInput(c.chatID, "What do you want to do with \""+job.Title+"\"?",
		[]string{applyOption, unsaveOption}, c.onActionChosen)
	c.send(c.input.InitMessage())
}

func (c *savedJobsCommand) onActionChosen(action string) {
	switch action {
	case applyOption:
		job := c.job
		c.apply = newApplyCommand(c.api, c.chatID, c.session.Applications, &job, true)
		c.apply.WithFinishCallback(c.finishCallback)
		if c.finalMessageKeyboard != nil {
			c.apply.WithKeyboardOnFinalMessage(*c.finalMessageKeyboard)
		}
		c.apply.Run()
	case unsaveOption:
		c.input = newConfirmationInput(c.chatID, unsavePrompt, c.onUnsaveConfirmed)
		c.send(c.input.InitMessage())
	}
}

func (c *savedJobsCommand) onUnsaveConfirmed(confirmed bool) {
	if !confirmed {
		c.finish(keptMessage)
		return
	}

	if err := c.session.SavedList.Remove(c.job.ID); err != nil && !errors.Is(err, services.ErrStaleReference) {
		c.finish("Internal error!")
		return
	}
	c.finish(removedMessage)
}
