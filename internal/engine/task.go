package engine

// FileTask is a single file awaiting classification. Tasks are created by
// the scan, owned by the queue, and consumed by exactly one worker.
type FileTask struct {
	Path string // absolute source path
	Size int64
}
