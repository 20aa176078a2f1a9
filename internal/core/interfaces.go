package core

// ScanOptions contains options for batch scanning
type ScanOptions struct {
	Workers int  // Number of folders inspected concurrently (1 = sequential)
	Save    bool // Persist detections into the library
}

// LaunchOptions contains options for starting a game
type LaunchOptions struct {
	Wrapper     string   // Command used to run the executable (e.g. "wine"); empty runs it directly
	WrapperArgs []string // Extra arguments placed between the wrapper and the executable
	NoWait      bool     // Return right after spawning instead of waiting for the session
}
