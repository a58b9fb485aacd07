// Package shared holds small helpers shared across the link and
// transport layers that don't belong to the codec or frame packages.
package shared

import "github.com/google/uuid"

// RandString returns a unique link or delivery tag name. AMQP link names
// only need to be unique per peer, but a random UUID avoids any need for
// the caller to track a counter.
func RandString() string {
	return uuid.NewString()
}
