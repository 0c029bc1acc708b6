package bot

import (
	"context"
	"fmt"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/job-finder/internal/logger"
	"github.com/maxaizer/job-finder/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"slices"
	"sync"
)

type sessionProvider interface {
	Get(chatID int64) (*services.Session, error)
}

type Bot struct {
	tgApi        *botApi.BotAPI
	api          apiInterface
	sessions     sessionProvider
	ctx          context.Context
	mu           sync.Mutex
	userContexts map[int64]*userContext
}

const (
	startCommandName       = "start"
	jobsCommandName        = "Jobs"
	refreshCommandName     = "Refresh"
	resetSearchCommandName = "Reset search"
	backToMenuCommandName  = "Back to menu"
)

var globalCommands = []string{jobsCommandName, refreshCommandName, searchCommandName, resetSearchCommandName,
	saveJobCommandName, savedJobsCommandName, applyCommandName, backToMenuCommandName}

func NewBot(token string, sessions sessionProvider) (*Bot, error) {

	if sessions == nil {
		return nil, errors.New("sessions provider is nil")
	}

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	createdBot := newBot(api, sessions)
	createdBot.tgApi = api
	return createdBot, nil
}

func newBot(api apiInterface, sessions sessionProvider) *Bot {
	return &Bot{
		api:          api,
		sessions:     sessions,
		ctx:          context.Background(),
		userContexts: make(map[int64]*userContext),
	}
}

// Run polls updates until ctx is done. Fetches still in flight are cancelled with it.
func (b *Bot) Run(ctx context.Context) {

	b.ctx = ctx

	updateConfig := botApi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.tgApi.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.tgApi.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil {
				continue
			}

			if update.Message.Chat.IsGroup() || update.Message.Chat.IsSuperGroup() {
				continue
			}

			go b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(message *botApi.Message) {

	ctx := b.userContext(message.Chat.ID)
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	cmd := message.Command()
	if cmd == "" && slices.Contains(globalCommands, message.Text) {
		cmd = message.Text
	}

	if cmd != "" {
		b.handleCommand(ctx, cmd)
	} else {
		b.handleInput(ctx, message.Text)
	}
}

func (b *Bot) userContext(chatID int64) *userContext {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.userContexts[chatID] == nil {
		b.userContexts[chatID] = newUserContext(chatID)
	}
	return b.userContexts[chatID]
}

func (b *Bot) handleCommand(ctx *userContext, command string) {

	chatID := ctx.chatID
	session, err := b.sessions.Get(chatID)
	if err != nil {
		log.Errorf("couldn't get session for chat %d: %v", chatID, err)
		_, _ = sendWithLogError(b.api, botApi.NewMessage(chatID, "Internal error!"))
		return
	}

	var response botApi.MessageConfig

	switch command {
	case startCommandName:
		ctx.Reset()
		response = botApi.NewMessage(chatID, "Hi! Loading the latest jobs for you...")
		go b.refresh(chatID, session)
	case jobsCommandName:
		ctx.Reset()
		response = botApi.NewMessage(chatID, jobsStateText(session))
	case refreshCommandName:
		ctx.Reset()
		response = botApi.NewMessage(chatID, "Loading jobs...")
		go b.refresh(chatID, session)
	case resetSearchCommandName:
		ctx.Reset()
		session.View.SetQuery("")
		response = botApi.NewMessage(chatID, filteredJobsText(session.View, session.Saved.IsSaved))
	case searchCommandName, saveJobCommandName, savedJobsCommandName, applyCommandName:
		cmd, cmdErr := b.createCommand(command, chatID, session)
		if cmdErr != nil {
			err = fmt.Errorf("couldn't create %s: %w", command, cmdErr)
		} else {
			ctx.RunCommand(cmd, session)
			return
		}
	case backToMenuCommandName:
		ctx.Reset()
		response = botApi.NewMessage(chatID, "You are back in the main menu.")
	default:
		response = botApi.NewMessage(chatID, "Unknown command!")
	}

	if err != nil {
		ctx.Reset()
		switch {
		case errors.Is(err, errNoJobs):
			response = botApi.NewMessage(chatID, "There are no jobs to choose from. Press \""+refreshCommandName+
				"\" to load jobs.")
		case errors.Is(err, errNoSavedJobs):
			response = botApi.NewMessage(chatID, "No saved jobs.")
		default:
			response = botApi.NewMessage(chatID, "Internal error!")
			log.Error(err)
		}
	}

	response.ReplyMarkup = defaultReplyKeyboard()
	sendLongMessage(b.api, response)
}

func (b *Bot) createCommand(name string, chatID int64, session *services.Session) (command, error) {

	switch name {
	case searchCommandName:
		return newSearchCommand(b.api, chatID, session), nil
	case saveJobCommandName:
		return newSaveJobCommand(b.api, chatID, session)
	case savedJobsCommandName:
		return newSavedJobsCommand(b.api, chatID, session)
	case applyCommandName:
		return newApplyCommand(b.api, chatID, session.Applications, nil, false), nil
	default:
		return nil, fmt.Errorf("unknown command: %v", name)
	}
}

func (b *Bot) handleInput(ctx *userContext, input string) {

	text := "Choose a command from the menu."

	if ctx.HasRunningCommand() {
		session, err := b.sessions.Get(ctx.chatID)
		if err == nil && ctx.IsRunningIn(session) {
			ctx.OnUserInput(input)
			return
		}
		if err != nil {
			log.Errorf("couldn't get session for chat %d: %v", ctx.chatID, err)
		}
		ctx.Reset()
		text = "Your session has expired. " + text
	}

	msg := botApi.NewMessage(ctx.chatID, text)
	msg.ReplyMarkup = defaultReplyKeyboard()
	_, err := b.api.Send(msg)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("error occured while sending message: %v", err)
	}
}

func (b *Bot) refresh(chatID int64, session *services.Session) {

	err := session.Refresh(b.ctx)
	if errors.Is(err, services.ErrFetchDiscarded) {
		return
	}

	msg := botApi.NewMessage(chatID, jobsStateText(session))
	msg.ReplyMarkup = defaultReplyKeyboard()
	sendLongMessage(b.api, msg)
}

func jobsStateText(session *services.Session) string {

	state := session.Jobs.State()
	text := filteredJobsText(session.View, session.Saved.IsSaved)

	if state.Error != "" {
		failure := state.Error + ". Press \"" + refreshCommandName + "\" to try again."
		if len(state.Jobs) == 0 {
			text = failure
		} else {
			text = failure + "\n\n" + text
		}
	}

	if state.Loading() {
		text = "Loading jobs...\n\n" + text
	}
	return text
}

func defaultReplyKeyboard() botApi.ReplyKeyboardMarkup {
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton(jobsCommandName),
			botApi.NewKeyboardButton(refreshCommandName),
		),
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton(searchCommandName),
			botApi.NewKeyboardButton(resetSearchCommandName),
		),
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton(saveJobCommandName),
			botApi.NewKeyboardButton(savedJobsCommandName),
			botApi.NewKeyboardButton(applyCommandName),
		),
	)
}

func keyboardWithExit() botApi.ReplyKeyboardMarkup {
	return botApi.NewReplyKeyboard(
		botApi.NewKeyboardButtonRow(
			botApi.NewKeyboardButton(backToMenuCommandName),
		),
	)
}
