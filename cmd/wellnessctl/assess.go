package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/wellness/api/internal/assessment"
	"github.com/forgo/wellness/api/internal/model"
	"github.com/forgo/wellness/api/internal/predictor"
)

type assessOptions struct {
	predictorURL string
	timeout      time.Duration
}

// modelClient is the slice of the predictor the assess session needs
type modelClient interface {
	PredictLifestyle(ctx context.Context, payload assessment.Payload) (*model.LifestylePrediction, error)
	PredictStress(ctx context.Context, features assessment.StressFeatures) (*model.StressPrediction, error)
}

func newAssessCmd() *cobra.Command {
	opts := &assessOptions{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Answer the questionnaire interactively and get predictions",
		Long: `Assess walks the questionnaire one step at a time on stdin.

Commands:
  <key>=<value>   record an answer
  show            list the current step's fields and answers
  next            move to the next step once this one is valid
  back            return to the previous step
  submit          send the answers to the prediction service
  quit            leave without submitting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := predictor.New(predictor.Config{
				BaseURL: opts.predictorURL,
				Timeout: opts.timeout,
			})
			if err != nil {
				return err
			}
			return runAssess(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client)
		},
	}
	cmd.Flags().StringVar(&opts.predictorURL, "predictor-url", "http://localhost:8000", "prediction service base URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

// assessSession holds one interactive questionnaire run
type assessSession struct {
	nav    *assessment.Navigator
	client modelClient
	out    io.Writer
}

func runAssess(ctx context.Context, in io.Reader, out io.Writer, client modelClient) error {
	s := &assessSession{client: client, out: out}
	s.nav = assessment.NewNavigator(nil, assessment.WithStepChange(func(from, to int) {
		s.showStep()
	}))
	s.showStep()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "[step %d/%d]> ", s.nav.Step(), assessment.StepCount)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(out)
			return nil
		}

		done, err := s.handle(ctx, strings.TrimSpace(scanner.Text()))
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// handle runs one input line. It reports done once the session should end.
func (s *assessSession) handle(ctx context.Context, line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "show":
		s.showStep()
	case "back":
		if !s.nav.Retreat() {
			fmt.Fprintln(s.out, "already at the first step")
		}
	case "next":
		if err := s.nav.Advance(); err != nil {
			s.showIssues(s.nav.Issues())
		} else if s.nav.IsLast() {
			fmt.Fprintln(s.out, "last step: type submit when done")
		}
	case "submit":
		return s.submit(ctx)
	default:
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			fmt.Fprintf(s.out, "unknown command %q\n", line)
			return false, nil
		}
		key = strings.TrimSpace(key)
		f, known := assessment.Field(key)
		if !known {
			fmt.Fprintf(s.out, "unknown field %q\n", key)
			return false, nil
		}
		if f.Step != s.nav.Step() {
			fmt.Fprintf(s.out, "%s belongs to step %d\n", key, f.Step)
			return false, nil
		}
		s.nav.Set(key, strings.TrimSpace(value))
	}
	return false, nil
}

func (s *assessSession) submit(ctx context.Context) (bool, error) {
	var (
		lifestyle *model.LifestylePrediction
		stress    *model.StressPrediction
	)
	_, err := s.nav.Submit(ctx, func(ctx context.Context, payload assessment.Payload) error {
		var err error
		if lifestyle, err = s.client.PredictLifestyle(ctx, payload); err != nil {
			return err
		}
		stress, err = s.client.PredictStress(ctx, assessment.BuildStressFeatures(s.nav.Answers()))
		return err
	})
	switch {
	case errors.Is(err, assessment.ErrIncomplete):
		s.showIssues(assessment.AllIssues(s.nav.Answers()))
		return false, nil
	case err != nil && ctx.Err() != nil:
		return false, fmt.Errorf("prediction failed: %w", err)
	case err != nil:
		fmt.Fprintf(s.out, "prediction failed: %v\ntype submit to try again\n", err)
		return false, nil
	}

	fmt.Fprintf(s.out, "lifestyle: %s\n", lifestyle.PredClassName)
	if len(lifestyle.PredMultilabelNames) > 0 {
		fmt.Fprintf(s.out, "also matches: %s\n", strings.Join(lifestyle.PredMultilabelNames, ", "))
	}
	fmt.Fprintf(s.out, "stress level: %d\n", stress.StressLevelClass)
	fmt.Fprintf(s.out, "wellness score: %.2f\n", assessment.WellnessScore(s.nav.Answers()))
	return true, nil
}

func (s *assessSession) showStep() {
	answers := s.nav.Answers()
	fmt.Fprintf(s.out, "step %d of %d\n", s.nav.Step(), assessment.StepCount)
	for _, f := range assessment.StepFields(s.nav.Step()) {
		hint := ""
		switch {
		case len(f.Choices) > 0:
			hint = " (" + strings.Join(f.Choices, "|") + ")"
		case f.HasRange:
			hint = fmt.Sprintf(" (%g-%g)", f.Min, f.Max)
		}
		fmt.Fprintf(s.out, "  %-28s %s%s = %s\n", f.Key, f.Label, hint, answers.Get(f.Key))
	}
}

func (s *assessSession) showIssues(issues []assessment.Issue) {
	for _, is := range issues {
		fmt.Fprintf(s.out, "  %s: %s\n", is.Field, is.Message)
	}
}
