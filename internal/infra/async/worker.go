package async

import "context"

// Worker is a background job owned by the serve command. Run blocks until the
// context ends or Shutdown is called, then calls done.
type Worker interface {
	Run(ctx context.Context, done func())
	Shutdown()
}
