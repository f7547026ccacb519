package console

import "context"

// CommandHandler is called when a line is submitted.
// line is non-empty, contains no NUL byte and is only valid during the call.
type CommandHandler interface {
	HandleCommand(ctx context.Context, line []byte) error
}

// HandleCommandFunc is func form of CommandHandler.
type HandleCommandFunc func(context.Context, []byte) error

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, line []byte) error {
	return f(ctx, line)
}
