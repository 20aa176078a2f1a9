package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled by user")

// ConfirmPrompt asks a yes/no confirmation question
func ConfirmPrompt(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if errors.Is(err, promptui.ErrInterrupt) {
			return false, ErrCancelled
		}
		return false, err
	}

	return strings.EqualFold(result, "y"), nil
}

// SelectOption is one entry of a detailed selection list
type SelectOption struct {
	Label  string
	Detail string
	Value  string
}

// OptionSearcher returns a promptui searcher that fuzzily matches labels
func OptionSearcher(options []SelectOption) func(input string, index int) bool {
	return func(input string, index int) bool {
		if index < 0 || index >= len(options) {
			return false
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return true
		}
		return fuzzy.MatchNormalizedFold(input, options[index].Label)
	}
}

// SelectPromptDetailed presents options with details and type-to-filter search
func SelectPromptDetailed(label string, options []SelectOption) (int, SelectOption, error) {
	if len(options) == 0 {
		return -1, SelectOption{}, errors.New("nothing to select")
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "▸ {{ .Label | cyan }} ({{ .Detail | faint }})",
		Inactive: "  {{ .Label | faint }} ({{ .Detail | faint }})",
		Selected: "▸ {{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:             label,
		Items:             options,
		Templates:         templates,
		Size:              min(10, len(options)),
		Searcher:          OptionSearcher(options),
		StartInSearchMode: len(options) > 10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return -1, SelectOption{}, ErrCancelled
		}
		return -1, SelectOption{}, err
	}

	return index, options[index], nil
}

// ConfirmDangerousAction asks for confirmation with a warning
func ConfirmDangerousAction(action string, target string) (bool, error) {
	PrintWarning("You are about to %s: %s", action, target)
	return ConfirmPrompt(fmt.Sprintf("Are you sure you want to %s", action))
}
