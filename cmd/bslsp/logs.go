package main

import (
	"fmt"
	"runtime"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the server log",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "keep printing as the log grows")
}

func runLogs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	follow, err := cmd.Flags().GetBool("follow")
	if err != nil {
		return err
	}
	path, err := logPath(cfg)
	if err != nil {
		return err
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow, // the server truncates the log when it starts
		MustExist: true,
		Poll:      runtime.GOOS == "windows",
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail %s: %w", path, err)
	}
	defer t.Cleanup()

	out := cmd.OutOrStdout()
	for {
		select {
		case <-cmd.Context().Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
