package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-finder/internal/logger"
	log "github.com/sirupsen/logrus"
	"strings"
	"unicode/utf8"
)

// Telegram rejects messages longer than this.
const maxMessageLength = 4096

type apiInterface interface {
	Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error)
}

type command interface {
	WithKeyboardOnFinalMessage(tgbotapi.ReplyKeyboardMarkup)
	WithFinishCallback(func())
	Run()
	OnUserInput(input string)
}

func sendWithLogError(api apiInterface, chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}

// sendLongMessage splits msg.Text on line boundaries. The reply markup goes with the last part.
func sendLongMessage(api apiInterface, msg tgbotapi.MessageConfig) {
	parts := splitText(msg.Text, maxMessageLength)
	for i, part := range parts {
		chunk := tgbotapi.NewMessage(msg.ChatID, part)
		if i == len(parts)-1 {
			chunk.ReplyMarkup = msg.ReplyMarkup
		}
		_, _ = sendWithLogError(api, chunk)
	}
}

func splitText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			cut := runeBoundary(line, limit)
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// runeBoundary moves a byte offset back so a multi-byte rune is never split.
func runeBoundary(text string, offset int) int {
	cut := offset
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		return offset
	}
	return cut
}
