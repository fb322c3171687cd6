package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"animation-poser/internal/console"

	"github.com/spf13/cobra"
)

var scanPause time.Duration

var consoleCmd = &cobra.Command{
	Use:   "console [script]",
	Short: "Run poser commands from stdin or a script file",
	Long: `Reads one command per line; "help" lists them and "quit" exits.
Lines may also carry the "cmd " prefix used by the viewer's command bar.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var in io.Reader = cmd.InOrStdin()
		interactive := len(args) == 0
		if !interactive {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			in = f
		}

		c := console.New(app.log, app.reg, app.sess, cmd.OutOrStdout())
		c.Prompt = interactive
		c.Pause = scanPause
		err := c.Run(ctx, in)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	consoleCmd.Flags().DurationVar(&scanPause, "scan-pause", 0, "sleep between scan slices")
}
