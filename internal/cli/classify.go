package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/service"
	"posture-detector-go/pkg/models"
)

// ClassifyOptions флаги команды classify
type ClassifyOptions struct {
	*RootOptions
	File      string
	FailOnBad bool
}

// NewClassifyCommand создает команду classify
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify posture of a single keypoint set",
		Long: `Classify posture of a single frame.

The document holds the five body keypoints:

  keypoints:
    nose:           {x: 100, y: 50}
    left_shoulder:  {x: 80,  y: 100}
    right_shoulder: {x: 120, y: 100}
    left_hip:       {x: 80,  y: 200}
    right_hip:      {x: 120, y: 200}

Examples:
  posturectl classify --file frame.yaml
  posturectl classify --file frame.json --format json --neck-threshold 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "keypoints document, JSON or YAML (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().BoolVar(&opts.FailOnBad, "fail-on-bad", false, "exit with code 1 when posture is bad")

	return cmd
}

func runClassify(opts *ClassifyOptions, cmd *cobra.Command) error {
	var req models.ClassifyRequest
	if err := loadDocument(opts.File, cmd.InOrStdin(), &req); err != nil {
		return WrapExitError(ExitCommandError, "failed to load keypoints", err)
	}

	th := opts.Thresholds()
	var verdict posture.Verdict
	ks, err := pose.FromKeypoints(req.Keypoints)
	if err != nil {
		verdict = posture.Verdict{Status: posture.Unclassifiable, Cause: err}
	} else {
		verdict = posture.Classify(ks, th)
	}
	resp := service.ToResponse(verdict, th)

	if opts.Verbose && verdict.Cause != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "unclassifiable: %v\n", verdict.Cause)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, resp); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		writeClassifyText(out, resp)
	}

	if opts.FailOnBad && verdict.Status == posture.Bad {
		return NewExitError(ExitFailure, "bad posture detected")
	}
	return nil
}

func writeClassifyText(w io.Writer, resp models.ClassifyResponse) {
	fmt.Fprintf(w, "%-12s %s\n", "Status:", resp.Status)
	fmt.Fprintf(w, "%-12s %s (threshold %.1f)\n", "Neck angle:", formatAngle(resp.NeckAngle), resp.Thresholds.NeckDegrees)
	fmt.Fprintf(w, "%-12s %s (threshold %.1f)\n", "Back angle:", formatAngle(resp.BackAngle), resp.Thresholds.BackDegrees)
	fmt.Fprintf(w, "%-12s %s\n", "Reasons:", formatReasons(resp.Reasons))
	fmt.Fprintf(w, "%-12s %s\n", "Message:", resp.Message)
}
