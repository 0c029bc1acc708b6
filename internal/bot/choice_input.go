package bot

import (
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
)

const (
	yesOption = "Yes"
	noOption  = "No"
)

// choiceInput accepts one of a fixed set of keyboard options.
type choiceInput struct {
	chatID   int64
	prompt   string
	options  []string
	onFinish func(option string)
}

func newChoiceInput(chatID int64, prompt string, options []string, onFinish func(option string)) *choiceInput {
	return &choiceInput{chatID: chatID, prompt: prompt, options: options, onFinish: onFinish}
}

func newConfirmationInput(chatID int64, prompt string, onFinish func(confirmed bool)) *choiceInput {
	return newChoiceInput(chatID, prompt, []string{yesOption, noOption}, func(option string) {
		onFinish(option == yesOption)
	})
}

func (c *choiceInput) InitMessage() botApi.Chattable {
	msg := botApi.NewMessage(c.chatID, c.prompt)
	msg.ReplyMarkup = optionsKeyboard(c.options)
	return msg
}

func (c *choiceInput) HandleInput(input string) botApi.Chattable {
	if !lo.Contains(c.options, input) {
		return botApi.NewMessage(c.chatID, "Please choose one of the options below.")
	}
	c.onFinish(input)
	return nil
}

func optionsKeyboard(options []string) botApi.ReplyKeyboardMarkup {
	buttons := lo.Map(options, func(option string, _ int) botApi.KeyboardButton {
		return botApi.NewKeyboardButton(option)
	})
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(buttons...),
		botApi.NewKeyboardButtonRow(botApi.NewKeyboardButton(backToMenuCommandName)),
	)
}
