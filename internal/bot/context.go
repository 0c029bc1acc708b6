package bot

import (
	"github.com/maxaizer/job-finder/internal/services"
	"sync"
)

// userContext serializes the input of one chat and tracks its running command
// together with the session the command was started in.
type userContext struct {
	mu         sync.Mutex
	chatID     int64
	curCommand command
	session    *services.Session
}

func newUserContext(chatID int64) *userContext {
	return &userContext{chatID: chatID}
}

func (u *userContext) RunCommand(command command, session *services.Session) {
	u.session = session
	u.setCommand(command)
	u.curCommand.Run()
}

func (u *userContext) HasRunningCommand() bool {
	return u.curCommand != nil
}

// IsRunningIn reports whether the running command belongs to session.
func (u *userContext) IsRunningIn(session *services.Session) bool {
	return u.curCommand != nil && u.session == session
}

func (u *userContext) OnUserInput(input string) {
	u.curCommand.OnUserInput(input)
}

func (u *userContext) Reset() {
	u.curCommand = nil
	u.session = nil
}

func (u *userContext) setCommand(cmd command) {
	u.curCommand = cmd
	cmd.WithFinishCallback(func() {
		if u.curCommand == cmd {
			u.curCommand = nil
		}
	})
	cmd.WithKeyboardOnFinalMessage(defaultReplyKeyboard())
}
