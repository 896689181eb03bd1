// Package delivery defines the transports served by the process.
package delivery

import "context"

// Delivery is a transport started by the application, such as the HTTP API.
type Delivery interface {
	// Serve blocks until the transport stops. A clean shutdown returns nil.
	Serve(ctx context.Context) error
}
