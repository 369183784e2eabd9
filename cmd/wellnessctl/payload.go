package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgo/wellness/api/internal/assessment"
)

type payloadOptions struct {
	answers string
	strict  bool
}

// payloadOutput is what the payload command prints
type payloadOutput struct {
	Payload       assessment.Payload        `json:"payload"`
	Stress        assessment.StressFeatures `json:"stress_features"`
	WellnessScore float64                   `json:"wellness_score"`
	Issues        []assessment.Issue        `json:"issues,omitempty"`
}

func newPayloadCmd() *cobra.Command {
	opts := &payloadOptions{}

	cmd := &cobra.Command{
		Use:   "payload",
		Short: "Print the model payloads built from an answers file",
		Long: `Payload reads a JSON object of questionnaire answers and prints the
lifestyle feature vector, the stress features and the wellness score. Use
"-" to read the answers from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayload(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.answers, "answers", "a", "-", "answers JSON file, or - for stdin")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when any answer is missing or out of range")
	return cmd
}

func readAnswers(cmd *cobra.Command, path string) (assessment.Answers, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open answers: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var answers assessment.Answers
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

func runPayload(cmd *cobra.Command, opts *payloadOptions) error {
	answers, err := readAnswers(cmd, opts.answers)
	if err != nil {
		return err
	}

	issues := assessment.AllIssues(answers)
	if opts.strict && len(issues) > 0 {
		return fmt.Errorf("%w: %d invalid answers", assessment.ErrIncomplete, len(issues))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payloadOutput{
		Payload:       assessment.BuildPayload(answers),
		Stress:        assessment.BuildStressFeatures(answers),
		WellnessScore: assessment.WellnessScore(answers),
		Issues:        issues,
	})
}
