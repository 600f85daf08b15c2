package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/squadcast/internal/shared"
	"golang.org/x/time/rate"
)

// BulkCancelOpts contains configuration for cancelling many bookings.
type BulkCancelOpts struct {
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Cancellations started per second (default: 5)
}

// CancelResult is the outcome for one booking
type CancelResult struct {
	BookingUID string
	Success    bool
	Error      error
}

// BulkCancelResult summarizes a bulk cancellation.
type BulkCancelResult struct {
	Total     int
	Cancelled int
	Failed    int
	Results   []CancelResult
}

// BulkCancel cancels the organizer's bookings concurrently with rate limiting and progress tracking.
//
// Individual failures are reported in the result; the returned error is reserved for invalid input.
func (m *Manager) BulkCancel(ctx context.Context, prog chan<- ProgressUpdate, organizerID string, uids []string, opts BulkCancelOpts) (*BulkCancelResult, error) {
	if len(uids) == 0 {
		return nil, fmt.Errorf("no bookings to cancel")
	}
	if organizerID == "" {
		return nil, fmt.Errorf("%w: organizer id", shared.ErrMissingArgument)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkCancelResult{Total: len(uids), Results: make([]CancelResult, 0, len(uids))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string, len(uids))
	results := make(chan CancelResult, len(uids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go m.cancelWorker(ctx, &wg, limiter, organizerID, jobs, results)
	}

	for _, uid := range uids {
		jobs <- uid
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Cancelled++
			m.sendProgress(prog, cancelCompletedUpdate(completed, len(uids), res.BookingUID))
		} else {
			result.Failed++
			m.sendProgress(prog, cancelFailedUpdate(completed, len(uids), res.BookingUID, res.Error))
		}
	}

	return result, nil
}

// cancelWorker cancels bookings from the jobs channel until it is drained.
func (m *Manager) cancelWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	organizerID string,
	jobs <-chan string,
	results chan<- CancelResult,
) {
	defer wg.Done()

	for uid := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- CancelResult{BookingUID: uid, Error: err}
			continue
		}

		_, err := m.Cancelled(ctx, nil, organizerID, uid)
		results <- CancelResult{BookingUID: uid, Success: err == nil, Error: err}
	}
}
