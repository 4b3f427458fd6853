package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/rover"
	"github.com/aretw0/rover/internal/presentation/tui"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/interpreter"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [instructions]",
	Short: "Apply an instruction string to a fresh robot and print the result",
	Long: `Builds a robot with the selected pattern at the start pose, applies the
instructions and prints the final state in the pattern's JSON shape.

  rover run RAALA --from 7,3,North
  rover run --all --trace LLAR`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		start := cfg.Start.Pose()
		if from, _ := cmd.Flags().GetString("from"); from != "" {
			if start, err = parsePose(from); err != nil {
				return err
			}
		}

		var instructions string
		if len(args) > 0 {
			instructions = args[0]
		}
		trace, _ := cmd.Flags().GetBool("trace")
		all, _ := cmd.Flags().GetBool("all")

		reg := rover.DefaultRegistry(logger)
		names := []string{cfg.Pattern}
		if all {
			names = reg.Names()
		}

		render := tui.NewRenderer(os.Stdout)
		for _, name := range names {
			pattern, err := reg.Lookup(name)
			if err != nil {
				return err
			}

			robot := pattern.New(start)
			steps, report := interpreter.Trace(robot, instructions)

			if trace {
				out, err := render(tui.TraceMarkdown(name, start, steps, report))
				if err != nil {
					return fmt.Errorf("failed to render trace: %w", err)
				}
				fmt.Print(out)
			}

			state, err := json.Marshal(robot)
			if err != nil {
				return fmt.Errorf("failed to encode %s robot: %w", name, err)
			}
			fmt.Printf("%-10s %s\n", name, state)
		}
		return nil
	},
}

// parsePose reads "x,y,Facing".
func parsePose(s string) (domain.Pose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Pose{}, fmt.Errorf("start pose must be x,y,Facing, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.Pose{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.Pose{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	facing, err := domain.ParseDirection(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.Pose{}, err
	}
	return domain.NewPose(x, y, facing), nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("from", "", "Start pose as x,y,Facing (default: start.* from config)")
	runCmd.Flags().Bool("trace", false, "Print the pose after every instruction")
	runCmd.Flags().Bool("all", false, "Run every pattern instead of the selected one")
}
