package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// Console is the interactive operator console backed by readline and promptui.
type Console struct{}

// ReadLine reads one line after printing prompt.
func (Console) ReadLine(prompt string) (string, error) {
	return ReadLine(prompt)
}

// Confirm asks a yes/no question that defaults to no.
func (Console) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, nil
	}

	// promptui needs a terminal; fall back to a plain line.
	line, lerr := ReadLine(fmt.Sprintf("%s (y/N): ", label))
	if lerr != nil {
		if errors.Is(lerr, ErrInterrupted) {
			return false, nil
		}
		return false, fmt.Errorf("read confirmation: %w", lerr)
	}
	return IsYes(line), nil
}

// IsYes reports whether an answer means yes. Anything else, including an
// empty answer, means no.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
