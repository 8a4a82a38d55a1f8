package cli

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

var errEmptyCommand = errors.New("empty browser command")

// openBrowser runs command with url appended as the last argument. The
// command may carry its own arguments, e.g. "firefox --new-tab".
func openBrowser(ctx context.Context, command, url string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errEmptyCommand
	}
	cmd := exec.CommandContext(context.WithoutCancel(ctx), fields[0], append(fields[1:], url)...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
