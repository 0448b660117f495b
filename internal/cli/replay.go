package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"posture-detector-go/internal/logger"
	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/report"
	"posture-detector-go/internal/service"
	"posture-detector-go/pkg/models"
)

// ReplayOptions флаги команды replay
type ReplayOptions struct {
	*RootOptions
	File    string
	Workers int
}

// replayDocument записанная сессия: список кадров с точками
type replayDocument struct {
	Frames []models.FrameInput `json:"frames" yaml:"frames"`
}

// ReplayResult результат повторного анализа
type ReplayResult struct {
	Frames  []models.FrameVerdict `json:"frames"`
	Summary models.SessionSummary `json:"summary"`
}

// NewReplayCommand создает команду replay
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-classify a recorded session frame by frame",
		Long: `Re-classify every frame of a recorded session and print per-frame verdicts
followed by the session summary. Frames are classified independently.

Examples:
  posturectl replay --file session.yaml
  posturectl replay --file session.json --format json --back-threshold 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "session document, JSON or YAML (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "parallel classification workers")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	var doc replayDocument
	if err := loadDocument(opts.File, cmd.InOrStdin(), &doc); err != nil {
		return WrapExitError(ExitCommandError, "failed to load session", err)
	}

	level := logrus.WarnLevel.String()
	if opts.Verbose {
		level = logrus.DebugLevel.String()
	}
	log := logger.NewWithWriter(logger.Options{Level: level, Format: "text"}, cmd.ErrOrStderr())

	analyzer := service.NewAnalyzerService(
		nil,
		pose.NewExtractor(pose.DefaultMinVisibility),
		report.NewCalculator(),
		nil,
		service.AnalyzerConfig{Thresholds: opts.Thresholds(), Workers: opts.Workers},
		log,
	)

	frames, summary, err := analyzer.AnalyzeBatch(cmd.Context(), doc.Frames)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, ReplayResult{Frames: frames, Summary: summary}); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}

	writeReplayText(out, frames, summary)
	return nil
}

func writeReplayText(w io.Writer, frames []models.FrameVerdict, s models.SessionSummary) {
	fmt.Fprintf(w, "%-6s %-8s %-15s %-6s %-6s %s\n", "FRAME", "TIME_MS", "STATUS", "NECK", "BACK", "REASONS")
	for _, f := range frames {
		fmt.Fprintf(w, "%-6d %-8d %-15s %-6s %-6s %s\n",
			f.FrameIndex, f.TimestampMs, f.Status,
			formatAngle(f.NeckAngle), formatAngle(f.BackAngle), formatReasons(f.Reasons))
	}

	line := func(label, value string) {
		fmt.Fprintf(w, "  %-22s %s\n", label+":", value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	line("total frames", fmt.Sprint(s.TotalFrames))
	line("classified frames", fmt.Sprint(s.ClassifiedFrames))
	line("good frames", fmt.Sprint(s.GoodFrames))
	line("bad frames", fmt.Sprint(s.BadFrames))
	line("unclassifiable frames", fmt.Sprint(s.UnclassifiableFrames))
	line("neck violations", fmt.Sprint(s.NeckViolations))
	line("back violations", fmt.Sprint(s.BackViolations))
	line("good percentage", fmt.Sprintf("%.1f%%", s.GoodPercentage))
	line("average neck angle", fmt.Sprintf("%.1f", s.AverageNeckAngle))
	line("average back angle", fmt.Sprintf("%.1f", s.AverageBackAngle))
}
