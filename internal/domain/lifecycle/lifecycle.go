// Package lifecycle holds shared values for process start and shutdown hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook (DB ping, server shutdown, client close).
const DefaultTimeout = 15 * time.Second
