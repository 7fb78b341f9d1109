package playback

import "time"

// Clock returns the current wall-clock time.
type Clock func() time.Time

// SystemClock is the Clock backed by time.Now.
var SystemClock Clock = time.Now
