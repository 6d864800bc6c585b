package experiment

import "time"

// Timestamp returns the local time formatted so that lexicographic and
// chronological order agree, for use in directory names and logs.
func Timestamp() string {
	return time.Now().Format("[2006-01-02 15 04 05]")
}
