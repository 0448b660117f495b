package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"posture-detector-go/internal/posture"
)

// RootOptions глобальные флаги всех команд
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	NeckThreshold float64
	BackThreshold float64
}

// ValidFormats допустимые форматы вывода
var ValidFormats = []string{"text", "json"}

// Thresholds возвращает пороги из флагов
func (o *RootOptions) Thresholds() posture.Thresholds {
	return posture.Thresholds{
		NeckDegrees: o.NeckThreshold,
		BackDegrees: o.BackThreshold,
	}
}

// NewRootCommand создает корневую команду posturectl
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := posture.DefaultThresholds()

	cmd := &cobra.Command{
		Use:   "posturectl",
		Short: "Offline posture classification",
		Long: `posturectl classifies sitting posture from body keypoints without the HTTP server.

Keypoint documents may be written in JSON or YAML; coordinates are image
pixels with the origin at the top-left corner and y pointing down.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := opts.Thresholds().Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid thresholds", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().Float64Var(&opts.NeckThreshold, "neck-threshold", defaults.NeckDegrees, "neck angle threshold in degrees")
	cmd.PersistentFlags().Float64Var(&opts.BackThreshold, "back-threshold", defaults.BackDegrees, "back angle threshold in degrees")

	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
