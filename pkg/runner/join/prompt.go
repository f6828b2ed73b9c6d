package join

import (
	"context"
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("join: prompt aborted")

// ErrNoTerminal is returned when prompting is requested without a TTY.
var ErrNoTerminal = errors.New("join: --interactive needs a terminal on stdin")

// InputConfig configures one text prompt.
type InputConfig struct {
	Message   string
	Help      string
	Validator func(string) error
}

// Prompter asks the user for a value.
type Prompter interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
}

type surveyPrompter struct{}

// NewSurveyPrompter prompts on the controlling terminal.
func NewSurveyPrompter() (Prompter, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, ErrNoTerminal
	}
	return surveyPrompter{}, nil
}

func (surveyPrompter) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
	}
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return cfg.Validator(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
