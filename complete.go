package fairplay

import (
   "sync"
   "time"

   "github.com/pkg/errors"
)

// completion is a single-assignment result cell. The first writer wins;
// later writes are no-ops, so a response arriving after the deadline cannot
// touch an already completed request.
type completion struct {
   once sync.Once
   done chan struct{}
   data []byte
   err  error
}

func newCompletion() *completion {
   return &completion{done: make(chan struct{})}
}

func (c *completion) complete(data []byte, err error) {
   c.once.Do(func() {
      c.data = data
      c.err = err
      close(c.done)
   })
}

// wait blocks until the cell is completed or the timeout elapses. A timeout
// counts as a transport failure and also seals the cell.
func (c *completion) wait(timeout time.Duration) ([]byte, error) {
   timer := time.NewTimer(timeout)
   defer timer.Stop()
   select {
   case <-c.done:
      return c.data, c.err
   case <-timer.C:
      c.complete(nil, errors.Wrap(ErrTransport, "license request timed out"))
      <-c.done
      return c.data, c.err
   }
}
