//go:build !linux && !darwin

package errno

// classifyPlatform has no errno table on this platform; Classify falls back
// to the io/fs sentinels.
func classifyPlatform(err error) (Number, bool) {
	return NotSet, false
}
