package domain

import (
	"encoding/json"
	"time"
)

// Operation names the kind of request that changed the shared robot.
type Operation string

const (
	OpMove       Operation = "move"
	OpReposition Operation = "reposition"
	OpReset      Operation = "reset"
	OpUndo       Operation = "undo"
)

// Report summarizes how an instruction string was interpreted.
type Report struct {
	Applied int                 `json:"applied"`
	Ignored int                 `json:"ignored"`
	Counts  map[Instruction]int `json:"-"`
}

// Snapshot is the result of one operation on the shared robot, captured while
// the robot was locked.
type Snapshot struct {
	Revision uint64          `json:"revision"`
	Pose     Pose            `json:"pose"`
	State    json.RawMessage `json:"state"`
}

// PoseEvent is published after an operation completes and the robot is unlocked.
type PoseEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Revision  uint64    `json:"revision"`
	Pattern   string    `json:"pattern"`
	Operation Operation `json:"operation"`
	Pose      Pose      `json:"pose"`
	Report    *Report   `json:"report,omitempty"`
}
