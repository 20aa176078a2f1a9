package core

import "time"

// DetectedGame is the result of inspecting one candidate folder
type DetectedGame struct {
	Title       string `json:"title" yaml:"title" csv:"title"`
	ExePath     string `json:"exe_path" yaml:"exe_path" csv:"exe_path"`
	InstallPath string `json:"install_path" yaml:"install_path" csv:"install_path"`
	Engine      string `json:"engine,omitempty" yaml:"engine,omitempty" csv:"engine"` // empty when no marker file matched
}

// HasEngine reports whether an authoring engine was recognized
func (g DetectedGame) HasEngine() bool {
	return g.Engine != ""
}

// PlaySession is emitted once a launched game process exits
type PlaySession struct {
	SessionID string        `json:"session_id"`
	GameID    string        `json:"game_id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	ExitErr   string        `json:"exit_error,omitempty"`
}

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitInvalidArgs  = 2
	ExitNotDetected  = 3
	ExitLaunchFailed = 4
	ExitDatabase     = 5
	ExitPermission   = 6
	ExitNetwork      = 7
	ExitInterrupted  = 130
)
