// Package workers runs the long-lived background loops of the device agent
// (connectivity monitor, preferences watcher, sync manager, scheduler,
// device hook) as one unit: they start together and stop together.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the loop
// fails; a nil error after ctx is done is a clean stop.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
