package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ghpush/ghpush/config"
	klog "github.com/ghpush/ghpush/pkg/log"
	"github.com/ghpush/ghpush/pkg/run"
)

const appName = "ghpush"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   appName,
	Short: "Push a local directory to a GitHub repository",
	Long:  "Push a local directory to a GitHub repository through the REST API",

	RunE: func(cmd *cobra.Command, args []string) error {
		conf := &config.Config{
			DryRun:      viper.GetBool("dry-run"),
			Logger:      klog.New(viper.GetString("log-level"), viper.GetString("log-server"), viper.GetString("log-output")),
			LocalDir:    viper.GetString("local-dir"),
			IgnoreFile:  viper.GetString("ignore-file"),
			Owner:       viper.GetString("owner"),
			Repo:        viper.GetString("repo"),
			Branch:      viper.GetString("branch"),
			Mode:        viper.GetString("mode"),
			Message:     viper.GetString("message"),
			Token:       viper.GetString("token"),
			Concurrency: viper.GetInt("concurrency"),
		}

		if err := conf.Init(viper.GetString("repo-url")); err != nil {
			return fmt.Errorf("failed to initialize the configuration: %v", err)
		}

		return run.Run(conf)
	},
}

// Execute adds all child commands to the root command and sets their flags.
func Execute() error {
	return RootCmd.Execute()
}
