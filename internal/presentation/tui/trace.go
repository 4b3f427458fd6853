package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/interpreter"
	"github.com/muesli/termenv"
)

// TraceMarkdown renders the steps of an interpreter trace as a markdown table.
func TraceMarkdown(pattern string, start domain.Pose, steps []interpreter.Step, report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trace (%s)\n\n", pattern)
	fmt.Fprintf(&b, "Start: **%s**\n\n", start)
	b.WriteString("| # | Input | Instruction | X | Y | Facing |\n")
	b.WriteString("|---|-------|-------------|---|---|--------|\n")
	for _, s := range steps {
		name := s.Instruction.Name()
		if s.Ignored {
			name = "_ignored_"
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s | %d | %d | %s |\n",
			s.Index+1, printable(s.Rune), name, s.Pose.X, s.Pose.Y, s.Pose.Facing)
	}

	end := start
	if len(steps) > 0 {
		end = steps[len(steps)-1].Pose
	}
	fmt.Fprintf(&b, "\nEnd: **%s** (%d applied, %d ignored)\n", end, report.Applied, report.Ignored)
	return b.String()
}

func printable(r rune) string {
	switch r {
	case ' ':
		return "␠"
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '`', '|':
		return fmt.Sprintf("%U", r)
	}
	return string(r)
}

var facingColors = map[domain.Direction]string{
	domain.North: "#34d399",
	domain.East:  "#60a5fa",
	domain.South: "#f472b6",
	domain.West:  "#fbbf24",
}

// FormatEvent renders one pose event as a single line for the watch command.
func FormatEvent(p termenv.Profile, e domain.PoseEvent) string {
	facing := p.String(fmt.Sprintf("%-5s", e.Pose.Facing)).Foreground(p.Color(facingColors[e.Pose.Facing]))
	line := fmt.Sprintf("#%-4d %-10s %-10s x=%-5d y=%-5d %s",
		e.Revision, e.Pattern, e.Operation, e.Pose.X, e.Pose.Y, facing)
	if e.Report != nil {
		line += fmt.Sprintf("  (%d applied, %d ignored)", e.Report.Applied, e.Report.Ignored)
	}
	return line
}
