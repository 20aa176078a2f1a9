package heuristics

// ExecutableScore represents a candidate executable with its calculated score
type ExecutableScore struct {
	Path  string `json:"path" yaml:"path" csv:"path"`
	Score int    `json:"score" yaml:"score" csv:"score"`
}

// Scorer defines the interface for scoring executables
type Scorer interface {
	// ScoreExecutable calculates a score for a single executable
	ScoreExecutable(path, folderName string) int

	// ChooseBest selects the best executable from a list of candidates
	ChooseBest(candidates []string, folderName string) string
}
