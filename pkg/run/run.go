// Package run implements the push pipeline: check access, collect the
// local files, publish them with the selected strategy.
package run

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"

	"github.com/ghpush/ghpush/config"
	"github.com/ghpush/ghpush/pkg/collector"
	"github.com/ghpush/ghpush/pkg/gh"
	"github.com/ghpush/ghpush/pkg/ignore"
	"github.com/ghpush/ghpush/pkg/publish"
)

var appFs = afero.NewOsFs()

// Run executes one push: fatal preconditions (bad token, missing
// repository, empty file set) surface as errors before any write
// endpoint is touched.
func Run(conf *config.Config) error {
	ctx := context.Background()
	log := conf.Logger

	client := gh.New(conf.Token, conf.APIBaseURL)

	user, err := client.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %v", err)
	}
	log.Infof("authenticated as %s", user.Login)

	repo, err := client.GetRepo(ctx, conf.Owner, conf.Repo)
	if err != nil {
		return fmt.Errorf("cannot access repository %s/%s: %v", conf.Owner, conf.Repo, err)
	}
	log.Infof("found repository %s (default branch %s)", repo.FullName, repo.DefaultBranch)

	ignorePath := conf.IgnoreFile
	if !filepath.IsAbs(ignorePath) {
		ignorePath = filepath.Join(conf.LocalDir, ignorePath)
	}

	rules, err := ignore.Load(appFs, ignorePath)
	if err != nil {
		return err
	}
	log.Infof("loaded %d ignore rule(s) from %s", rules.Len(), ignorePath)

	fmt.Printf("Collecting files from %s\n", conf.LocalDir)
	files, err := collector.Collect(log, conf.LocalDir, rules)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("nothing to commit: no files collected under %s", conf.LocalDir)
	}

	fmt.Printf("Found %d file(s) to publish\n", len(files))

	if conf.DryRun {
		fmt.Println("Dry-run mode: nothing pushed")
		return nil
	}

	target := publish.Target{Owner: conf.Owner, Repo: conf.Repo, Branch: conf.Branch}

	switch conf.Mode {
	case config.ModeAtomic:
		sha, err := publish.Atomic(ctx, log, client, target, files, conf.Message)
		if err != nil {
			return err
		}
		fmt.Printf("Pushed commit %.7s to %s/%s\n", sha, conf.Owner, conf.Repo)

	case config.ModeIncremental:
		bar := pb.StartNew(len(files))
		outcomes := publish.Incremental(ctx, client, target, files, conf.Message,
			conf.Concurrency, func() { bar.Increment() })
		bar.Finish()

		var created, existing, failed int
		for _, outcome := range outcomes {
			switch outcome.State {
			case publish.Created:
				created++
				fmt.Printf("  + %s%s\n", outcome.Path, binaryMark(outcome))
			case publish.AlreadyExists:
				existing++
				fmt.Printf("  ~ %s (already exists)\n", outcome.Path)
			case publish.Failed:
				failed++
				fmt.Printf("  ! %s: %v\n", outcome.Path, outcome.Err)
			}
		}

		fmt.Printf("Done: %d created, %d already existing, %d failed\n", created, existing, failed)
	}

	fmt.Printf("Repository: https://github.com/%s/%s\n", conf.Owner, conf.Repo)

	return nil
}

func binaryMark(outcome publish.Outcome) string {
	if outcome.Binary {
		return " (binary)"
	}
	return ""
}
