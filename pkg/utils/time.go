package utils

import "time"

// ToDuration converts a number of seconds into a time.Duration.
func ToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
