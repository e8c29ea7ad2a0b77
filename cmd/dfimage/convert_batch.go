package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	dfimage "github.com/alnah/go-dfimage"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	Files     []string
	Err       error
	Duration  time.Duration
}

// convertBatch converts notebooks concurrently, one pool converter per
// worker. Results keep the input order.
func convertBatch(ctx context.Context, pool Pool, files []string, opts *dfimage.Options, now func() time.Time) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx], Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], opts, now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile converts one notebook. Each file gets its own copy of the
// options so workers never share them.
func convertFile(ctx context.Context, conv CLIConverter, path string, opts *dfimage.Options, now func() time.Time) ConversionResult {
	start := now()
	o := *opts
	res, err := conv.Convert(ctx, path, &o)

	result := ConversionResult{InputPath: path, Err: err}
	if res != nil {
		result.Files = res.Files
	}
	result.Duration = now().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults writes one "Created" line per written file and one FAILED
// line per failed notebook. Returns the number of failures.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
		}

		if quiet {
			continue
		}

		// A failed conversion may still have written the targets before it.
		for _, f := range r.Files {
			fmt.Fprintf(env.Stdout, "Created %s\n", f)
		}
		if verbose && r.Err == nil {
			fmt.Fprintf(env.Stdout, "%s done in %v\n", r.InputPath, r.Duration.Round(time.Millisecond))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
