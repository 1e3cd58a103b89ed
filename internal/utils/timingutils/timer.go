package timingutils

import (
	"time"

	"gitee.com/czyczk/evote-ballot-engine/internal/global"
	log "github.com/sirupsen/logrus"
)

// GetDeferrableTimingLogger creates a logger function that starts a timer when called and ends the timer when the calling function ends and logs (at debug level) the time diff.
func GetDeferrableTimingLogger(message string) func() {
	if !global.ShowTimingLogs {
		return func() {}
	}

	start := time.Now()
	return func() {
		log.Debugf("%v: %v", message, time.Since(start))
	}
}

// TruncateToStorage normalizes a timestamp to the precision every supported database keeps (milliseconds, UTC).
// Values used in hashes must go through this before being stored, so that a reread row hashes the same.
func TruncateToStorage(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
