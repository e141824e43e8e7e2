package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/captainctl/internal/config"
	"github.com/danmuck/captainctl/internal/jobs"
	"github.com/danmuck/captainctl/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "captainctl",
		Short:         "Average CAPTAIN replicate outputs",
		Long:          "Averages replicate npz outputs of the CAPTAIN conservation-prioritization model and writes R data files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
		},
	}
	root.AddCommand(newGridCmd(), newFractionsCmd())
	return root
}

func newGridCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Average protection matrices into a PUID/Priority table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultGridJob()
			if path != "" {
				loaded, err := config.LoadGridJob(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			_, err := jobs.RunGrid(cfg, cmd.OutOrStdout())
			return settle(err)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "grid job TOML file (defaults apply when omitted)")
	return cmd
}

func newFractionsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "fractions",
		Short: "Average protected range fractions per species and index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultFractionJob()
			if path != "" {
				loaded, err := config.LoadFractionJob(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			_, err := jobs.RunFractions(cfg, cmd.OutOrStdout())
			return settle(err)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "fractions job TOML file (defaults apply when omitted)")
	return cmd
}

// settle treats an empty run as a completed one; the job already printed why.
func settle(err error) error {
	if errors.Is(err, jobs.ErrNoResults) {
		return nil
	}
	return err
}

// execute runs the root command with args, for tests.
func execute(out io.Writer, args ...string) error {
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return fmt.Errorf("captainctl %v: %w", args, err)
	}
	return nil
}
