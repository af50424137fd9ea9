package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted   Type = iota + 1
	ScanComplete
	FileMoved
	FileDuplicate
	FileSkipped
	FileFailed
	DirPruned
	RunComplete
)

var typeNames = [...]string{
	ScanStarted:   "ScanStarted",
	ScanComplete:  "ScanComplete",
	FileMoved:     "FileMoved",
	FileDuplicate: "FileDuplicate",
	FileSkipped:   "FileSkipped",
	FileFailed:    "FileFailed",
	DirPruned:     "DirPruned",
	RunComplete:   "RunComplete",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // source path
	Dest      string // destination path (moves and duplicates)
	Size      int64  // file size in bytes
	Total     int64  // total queued tasks (ScanComplete)
	Error     error
	WorkerID  int
}
