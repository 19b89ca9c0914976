package notify

import "time"

func timeoutSeconds(sec int) time.Duration {
	if sec <= 0 {
		sec = 15
	}
	return time.Duration(sec) * time.Second
}
