package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Notifier delivers a formatted text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// ConsoleNotifier prints messages to a writer, normally stdout.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleNotifier creates a notifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Send(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(c.w, text); err != nil {
		return fmt.Errorf("console write: %w", err)
	}
	return nil
}

// Multi fans a message out to every notifier. All notifiers are tried; the
// returned error joins the individual failures.
type Multi []Notifier

func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, n := range m {
		names[i] = n.Name()
	}
	return strings.Join(names, "+")
}

func (m Multi) Send(ctx context.Context, text string) error {
	var errs []error
	for _, n := range m {
		if err := n.Send(ctx, text); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
