package bot

import botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

type baseCommand struct {
	api                  apiInterface
	chatID               int64
	finishCallback       func()
	finalMessageKeyboard *botApi.ReplyKeyboardMarkup
}

func (c *baseCommand) WithFinishCallback(callback func()) {
	c.finishCallback = callback
}

func (c *baseCommand) WithKeyboardOnFinalMessage(keyboard botApi.ReplyKeyboardMarkup) {
	c.finalMessageKeyboard = &keyboard
}

func (c *baseCommand) send(chattable botApi.Chattable) {
	if chattable == nil {
		return
	}
	if msg, ok := chattable.(botApi.MessageConfig); ok {
		sendLongMessage(c.api, msg)
		return
	}
	_, _ = sendWithLogError(c.api, chattable)
}

func (c *baseCommand) finish(text string) {
	msg := botApi.NewMessage(c.chatID, text)
	if c.finalMessageKeyboard != nil {
		msg.ReplyMarkup = *c.finalMessageKeyboard
	}
	sendLongMessage(c.api, msg)

	if c.finishCallback != nil {
		c.finishCallback()
	}
}
