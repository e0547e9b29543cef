package publish

import (
	"context"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/ghpush/ghpush/pkg/gh"
)

// State classifies one per-file publish attempt.
type State int

const (
	// Created means the file was created on the branch.
	Created State = iota

	// AlreadyExists means the path was already present; the remote
	// copy is left untouched.
	AlreadyExists

	// Failed covers every other remote error.
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case AlreadyExists:
		return "already-exists"
	default:
		return "failed"
	}
}

// Outcome reports one file's publish attempt.
type Outcome struct {
	Path   string
	State  State
	Binary bool
	Err    error
}

// Incremental publishes every file with an independent create call,
// fanned out over a bounded worker pool. A conflict on an existing
// path is benign, any other failure is recorded without stopping the
// remaining files, which makes the whole run safe to repeat after a
// partial failure. Outcomes come back sorted by path so repeated runs
// report deterministically; onDone (optional) fires once per attempt
// for progress accounting.
func Incremental(ctx context.Context, client api, target Target, files map[string][]byte, message string, workers int, onDone func()) []Outcome {
	if workers < 1 {
		workers = 1
	}

	paths := sortedPaths(files)
	jobs := make(chan string)
	results := make(chan Outcome, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- publishOne(ctx, client, target, path, files[path], message)
				if onDone != nil {
					onDone()
				}
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(results)

	outcomes := make([]Outcome, 0, len(paths))
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })

	return outcomes
}

func publishOne(ctx context.Context, client api, target Target, path string, content []byte, message string) Outcome {
	outcome := Outcome{
		Path:   path,
		Binary: !utf8.Valid(content),
	}

	err := client.CreateFile(ctx, target.Owner, target.Repo, path, message, content, target.Branch)
	switch {
	case err == nil:
		outcome.State = Created
	case gh.IsConflict(err):
		outcome.State = AlreadyExists
	default:
		outcome.State = Failed
		outcome.Err = err
	}

	return outcome
}
