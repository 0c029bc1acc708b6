package bot

import (
	"fmt"
	"github.com/maxaizer/job-finder/internal/services"
	"strings"
)

const searchCommandName = "Search"

type searchCommand struct {
	baseCommand
	view    *services.JobsView
	isSaved func(id string) bool
	input   inputHandler
}

func newSearchCommand(api apiInterface, chatID int64, session *services.Session) *searchCommand {

	cmd := &searchCommand{
		baseCommand: baseCommand{api: api, chatID: chatID},
		view:        session.View,
		isSaved:     session.Saved.IsSaved,
	}

	prompt := "Enter a part of the job title to search for."
	if query := session.View.Query(); query != "" {
		prompt += fmt.Sprintf(" Current search: \"%s\".", query)
	}

	input := newTextInput(chatID, prompt, cmd.applyQuery)
	input.AddValidation(validation{
		function:     func(input string) bool { return input != "" },
		errorMessage: "The search text can't be empty. Use \"" + resetSearchCommandName + "\" to see all jobs.",
	})
	cmd.input = input
	return cmd
}

func (c *searchCommand) Run() {
	c.send(c.input.InitMessage())
}

func (c *searchCommand) OnUserInput(input string) {
	c.send(c.input.HandleInput(input))
}

func (c *searchCommand) applyQuery(query string) {
	c.view.SetQuery(query)
	c.finish(filteredJobsText(c.view, c.isSaved))
}

func filteredJobsText(view *services.JobsView, isSaved func(id string) bool) string {
	jobs := view.Filtered()
	query := view.Query()

	if len(jobs) == 0 {
		if query == "" {
			return "No jobs loaded. Press \"" + refreshCommandName + "\" to load jobs."
		}
		return fmt.Sprintf("No jobs match \"%s\".", query)
	}

	var header string
	if query == "" {
		header = fmt.Sprintf("Jobs (%d):", len(jobs))
	} else {
		header = fmt.Sprintf("Jobs matching \"%s\" (%d):", query, len(jobs))
	}
	return strings.TrimRight(header+"\n"+jobsToText(jobs, isSaved), "\n")
}
