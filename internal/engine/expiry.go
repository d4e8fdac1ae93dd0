package engine

import (
	"time"

	"ticklob/internal/book"

	tomb "gopkg.in/tomb.v2"
)

// expiryGrace is added to the cutoff before the task wakes, covering
// clock skew and giving admissions right at the cutoff a chance to
// land before the sweep.
const expiryGrace = 100 * time.Millisecond

// Start launches the expiry task as a tomb-supervised background
// goroutine, grounded in the same supervised-goroutine idiom the
// teacher uses for its worker pool and session handler: a single
// shutdown signal (tomb.Kill) that every select-based wait observes,
// in place of a raw condition variable and flag.
func (e *Engine) Start() {
	e.tmb = new(tomb.Tomb)
	e.tmb.Go(e.runExpiry)
}

// Shutdown signals the expiry task to stop and waits for it to return.
// Safe to call even if Start was never called.
func (e *Engine) Shutdown() error {
	if e.tmb == nil {
		return nil
	}
	e.tmb.Kill(nil)
	return e.tmb.Wait()
}

func (e *Engine) runExpiry() error {
	for {
		from := e.now()
		cutoff := nextCutoff(from, e.cfg.CutoffHour)
		timer := time.NewTimer(cutoff.Add(expiryGrace).Sub(from))

		select {
		case <-e.tmb.Dying():
			timer.Stop()
			return nil
		case <-timer.C:
			e.expireDayOrders()
		}
	}
}

// nextCutoff computes the next wall-clock cutoff hour in from's
// location. If from is already at or past today's cutoff, the cutoff
// advances by one day.
func nextCutoff(from time.Time, hour int) time.Time {
	cutoff := time.Date(from.Year(), from.Month(), from.Day(), hour, 0, 0, 0, from.Location())
	if !from.Before(cutoff) {
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return cutoff
}

// expireDayOrders collects every resting GoodForDay order under the
// book lock, releases it, then cancels each one through the public
// cancel path -- which re-acquires the lock per order, so a long sweep
// never holds the book exclusively for its whole duration.
func (e *Engine) expireDayOrders() {
	e.mu.Lock()
	ids := e.idx.OrderIDsByType(book.GoodForDay)
	e.mu.Unlock()

	for _, id := range ids {
		e.Cancel(id)
	}

	if len(ids) > 0 {
		e.metrics.AddExpired(len(ids))
		e.logger.Info().Int("count", len(ids)).Msg("expired day orders at cutoff")
	}
}
