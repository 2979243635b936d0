package instance

import (
	"os"
	"strings"
)

const defaultID = "worker-0"

// GetID returns the worker instance identifier from RUPIYA_WORKER_ID, falling
// back to the host name.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv("RUPIYA_WORKER_ID")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return defaultID
}
