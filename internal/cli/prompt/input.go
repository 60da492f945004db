package prompt

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrBlank is returned by NotBlank for empty or whitespace-only input.
var ErrBlank = errors.New("value cannot be blank")

// NotBlank rejects empty or whitespace-only input.
func NotBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrBlank
	}
	return nil
}

// Input prompts for a line of text pre-filled with defaultValue. validate,
// if non-nil, is checked on every keystroke and blocks submission while it
// returns an error. The result is trimmed.
func Input(label, defaultValue string, validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   defaultValue,
		AllowEdit: defaultValue != "",
		Validate:  validate,
	}

	result, err := p.Run()
	if err != nil {
		return "", wrapError(err)
	}
	return strings.TrimSpace(result), nil
}
