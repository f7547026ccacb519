// Package dispatch provides receivers of submitted console lines.
package dispatch

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/uartcon/pkg/console"
	fx "github.com/robotalks/uartcon/pkg/framework"
)

// Log logs every command.
type Log struct{}

// HandleCommand implements console.CommandHandler.
func (Log) HandleCommand(ctx context.Context, line []byte) error {
	glog.Infof("command %q", line)
	return nil
}

// Multi hands a command to every handler in order.
type Multi []console.CommandHandler

// HandleCommand implements console.CommandHandler.
func (m Multi) HandleCommand(ctx context.Context, line []byte) error {
	var errs fx.AggregatedError
	for _, h := range m {
		errs.Add(h.HandleCommand(ctx, line))
	}
	return errs.Aggregate()
}
