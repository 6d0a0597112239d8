// glcam - terminal camera viewer
// Flies a camera around a lit, spinning model in your terminal.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Mouse       - Look around (mouselook camera)
//	X           - Toggle wireframe mode
//	Esc, Ctrl+C - Quit
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/glcam/pkg/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	var logFile string

	root := &cobra.Command{
		Use:   "glcam [model.obj|model.glb]",
		Short: "Fly a camera around a 3D model in the terminal",
		Long: `glcam renders a lit, spinning model with a software rasterizer and
lets you move the camera with W/A/S/D and the mouse. Without a model it
shows the tutorial pyramid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Model = args[0]
			}

			// The alternate screen owns stdout and stderr while running, so
			// logs are held back and written after teardown.
			var held bytes.Buffer
			var w io.Writer = &held
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := cfg.NewLogger(w, log.Options{Prefix: "glcam", ReportTimestamp: true})

			err := runTerminal(cmd.Context(), cfg, logger)
			if held.Len() > 0 {
				_, _ = held.WriteTo(cmd.ErrOrStderr())
			}
			return err
		},
	}
	cfg.BindFlags(root.PersistentFlags())
	root.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of after exit")

	root.AddCommand(newSnapshotCmd(&cfg))
	return root
}
