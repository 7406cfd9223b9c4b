// Package watcher follows a growing file: change notifications from the
// file system are coalesced and each burst triggers a read of the new bytes
// through a file handle.
package watcher

// Debouncer coalesces rapid events
type Debouncer interface {
	// Debounce delays execution of fn until events for key settle
	Debounce(key string, fn func())
	// Stop cancels pending callbacks
	Stop()
}

// Op is the kind of change observed on a file
type Op int

const (
	// Modified covers writes, truncation and re-creation
	Modified Op = iota
	// Removed covers deletion and rename away
	Removed
)

func (o Op) String() string {
	switch o {
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one notification for a followed file
type Change struct {
	Name string
	Op   Op
}

// Source delivers changes for one file
type Source interface {
	Changes() <-chan Change
	Errors() <-chan error
	Close() error
}
