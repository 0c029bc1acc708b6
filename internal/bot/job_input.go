package bot

import (
	"fmt"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-finder/internal/entities"
	"strconv"
	"strings"
)

type jobInput struct {
	chatID   int64
	prompt   string
	jobs     []entities.Job
	isSaved  func(id string) bool
	onFinish func(job entities.Job)
}

func newJobInput(chatID int64, prompt string, jobs []entities.Job, isSaved func(id string) bool,
	onFinish func(job entities.Job)) *jobInput {
	return &jobInput{chatID: chatID, prompt: prompt, jobs: jobs, isSaved: isSaved, onFinish: onFinish}
}

func (j *jobInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(j.chatID, j.prompt+"\n\n"+jobsToText(j.jobs, j.isSaved))
	msg.ReplyMarkup = keyboardWithExit()
	return msg
}

func (j *jobInput) HandleInput(input string) botApi.Chattable {

	number, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return botApi.NewMessage(j.chatID, "Enter a number!")
	}

	if number < 1 || number > len(j.jobs) {
		return botApi.NewMessage(j.chatID, "There is no job with this number.")
	}

	j.onFinish(j.jobs[number-1])
	return nil
}

func jobsToText(jobs []entities.Job, isSaved func(id string) bool) string {
	var text strings.Builder
	for i, job := range jobs {
		text.WriteString(jobToText(i+1, job))
		if isSaved != nil && isSaved(job.ID) {
			text.WriteString(" [Saved]")
		}
		text.WriteString("\n")
	}
	return text.String()
}

func jobToText(number int, job entities.Job) string {
	return fmt.Sprintf("%d. %s\n   %s, %s, %s", number, job.Title, job.CompanyName, job.MainCategory, job.JobType)
}
