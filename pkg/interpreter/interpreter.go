// Package interpreter applies instruction strings to a robot.
//
// Runes are applied left to right, one at a time, each causing at most one
// transition. Runes other than 'L', 'R' and 'A' are skipped. The walk is the
// same for every robot implementation; only the robot's Execute differs.
package interpreter

import (
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
)

// Run applies instructions to r and reports what was applied and skipped.
func Run(r ports.Robot, instructions string) domain.Report {
	report := domain.Report{Counts: make(map[domain.Instruction]int)}
	for _, c := range instructions {
		record(&report, c)
		r.Execute(c)
	}
	return report
}

// Step is one entry of a trace.
type Step struct {
	Index       int
	Rune        rune
	Instruction domain.Instruction
	Ignored     bool
	Pose        domain.Pose
}

// Trace is Run that also records the pose after every rune.
func Trace(r ports.Robot, instructions string) ([]Step, domain.Report) {
	report := domain.Report{Counts: make(map[domain.Instruction]int)}
	var steps []Step
	for _, c := range instructions {
		inst, ok := record(&report, c)
		r.Execute(c)
		steps = append(steps, Step{
			Index:       len(steps),
			Rune:        c,
			Instruction: inst,
			Ignored:     !ok,
			Pose:        r.Pose(),
		})
	}
	return steps, report
}

func record(report *domain.Report, c rune) (domain.Instruction, bool) {
	inst, ok := domain.ParseInstruction(c)
	if !ok {
		report.Ignored++
		return 0, false
	}
	report.Applied++
	report.Counts[inst]++
	return inst, true
}
