package pipeline

import (
	"context"
	"sync"

	"github.com/registrarlabs/namegate/internal/name"
)

// CheckBatch checks many names concurrently with a bounded worker pool.
// Results come back in input order regardless of completion order. On
// cancellation, in-flight checks finish, queued ones are abandoned, and the
// partial results computed so far are returned alongside ctx.Err(); their
// slots line up with the input, unprocessed entries are nil.
//
// A name that fails normalization gets a nil slot too; one bad entry never
// aborts the batch.
func (c *Checker) CheckBatch(ctx context.Context, raws []string) ([]*Verdict, error) {
	return c.checkBatch(ctx, raws, name.SourceOriginal)
}

func (c *Checker) checkBatch(ctx context.Context, raws []string, source name.Source) ([]*Verdict, error) {
	results := make([]*Verdict, len(raws))
	if len(raws) == 0 {
		return results, nil
	}

	workers := c.workers
	if workers > len(raws) {
		workers = len(raws)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					// Cancelled while this job sat in the queue.
					continue
				}
				v, err := c.check(ctx, raws[i], source)
				if err != nil {
					c.logger.Warn("skipping invalid batch entry",
						"index", i, "error", err)
					continue
				}
				results[i] = v
			}
		}()
	}

	// Feed indices until done or cancelled; never start new work after
	// cancellation.
feed:
	for i := range raws {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results, ctx.Err()
}
