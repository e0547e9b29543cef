package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	repoURL     string
	owner       string
	repo        string
	branch      string
	localDir    string
	ignoreFile  string
	mode        string
	message     string
	dryRun      bool
	logLevel    string
	logOutput   string
	logServer   string
	concurrency int
)

func bindPFlag(key string, cmd string) {
	if err := viper.BindPFlag(key, RootCmd.PersistentFlags().Lookup(cmd)); err != nil {
		log.Fatal("Failed to bind cli argument:", err)
	}
}

func init() {
	cobra.OnInitialize(loadConfigFile)
	RootCmd.AddCommand(versionCmd)

	defaultCfg := "/etc/ghpush/" + appName + ".yaml"
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultCfg, "Configuration file")

	RootCmd.PersistentFlags().StringVarP(&repoURL, "repo-url", "u", "", "HTTPS URL of the destination repository")
	bindPFlag("repo-url", "repo-url")

	RootCmd.PersistentFlags().StringVar(&owner, "owner", "", "Destination repository owner")
	bindPFlag("owner", "owner")

	RootCmd.PersistentFlags().StringVar(&repo, "repo", "", "Destination repository name")
	bindPFlag("repo", "repo")

	RootCmd.PersistentFlags().StringVarP(&branch, "branch", "b", "main", "Destination branch")
	bindPFlag("branch", "branch")

	RootCmd.PersistentFlags().StringVarP(&localDir, "local-dir", "e", ".", "Local directory to push")
	bindPFlag("local-dir", "local-dir")

	RootCmd.PersistentFlags().StringVarP(&ignoreFile, "ignore-file", "g", ".gitignore", "Ignore rules file (literal patterns, one per line)")
	bindPFlag("ignore-file", "ignore-file")

	RootCmd.PersistentFlags().StringVarP(&mode, "mode", "s", "atomic", "Publish strategy: atomic (single commit) or incremental (per-file)")
	bindPFlag("mode", "mode")

	RootCmd.PersistentFlags().StringVarP(&message, "message", "m", "Publish local files", "Commit message")
	bindPFlag("message", "message")

	RootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "Dry-run mode: collect and list, don't push")
	bindPFlag("dry-run", "dry-run")

	RootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "j", 5, "Parallel uploads in incremental mode")
	bindPFlag("concurrency", "concurrency")

	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "info", "Log level")
	bindPFlag("log-level", "log-level")

	RootCmd.PersistentFlags().StringVarP(&logOutput, "log-output", "o", "stderr", "Log output")
	bindPFlag("log-output", "log-output")

	RootCmd.PersistentFlags().StringVarP(&logServer, "log-server", "r", "", "Log server (if using syslog)")
	bindPFlag("log-server", "log-server")

	// the token is a secret: environment only, never a flag
	if err := viper.BindEnv("token", "GITHUB_TOKEN"); err != nil {
		log.Fatal("Failed to bind cli argument:", err)
	}
}
