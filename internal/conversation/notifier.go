package conversation

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// LineFunc prints one line of output. display.UI's PrintChat and
// PrintUrgent match it.
type LineFunc func(text string)

// CLINotifier delivers notifications to the REPL: confirmations through
// the chat printer, failures through the urgent printer.
type CLINotifier struct {
	log    *logger.Logger
	chat   LineFunc
	urgent LineFunc
}

// NewCLINotifier creates a terminal notifier. Nil printers fall back to
// stdout, with urgent lines prefixed by "! ".
func NewCLINotifier(log *logger.Logger, chat, urgent LineFunc) *CLINotifier {
	if chat == nil {
		chat = func(text string) { fmt.Println(text) }
	}
	if urgent == nil {
		urgent = func(text string) { fmt.Println("! " + text) }
	}
	return &CLINotifier{log: log, chat: chat, urgent: urgent}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Debug("notify: %s", message)
	n.chat(message)
	return nil
}

// NotifyUrgent prints an error or warning the user must see.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Debug("notify-urgent: %s", message)
	n.urgent(message)
	return nil
}
