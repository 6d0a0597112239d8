package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/config"
	"github.com/taigrr/glcam/pkg/render"
	"github.com/taigrr/glcam/pkg/viewer"
)

type snapshotOptions struct {
	out           string
	width, height int
	frames        int
	forward       int // Frames to hold W before capturing
}

func newSnapshotCmd(cfg *config.Config) *cobra.Command {
	opts := snapshotOptions{
		out:    "glcam.png",
		width:  640,
		height: 360,
		frames: 1,
	}

	cmd := &cobra.Command{
		Use:   "snapshot [model.obj|model.glb]",
		Short: "Render frames off-screen and save the last one as PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Model = args[0]
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr(), log.Options{Prefix: "glcam"})
			return snapshot(*cfg, opts, logger)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "output PNG path")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "number of frames to step before saving")
	cmd.Flags().IntVar(&opts.forward, "forward", opts.forward, "hold the forward key for this many of those frames")
	return cmd
}

func snapshot(cfg config.Config, opts snapshotOptions, logger *log.Logger) error {
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive", opts.width, opts.height)
	}
	if opts.frames < 1 {
		return fmt.Errorf("frames %d must be at least 1", opts.frames)
	}

	v, err := viewer.New(cfg, render.NewFramebuffer(opts.width, opts.height), logger)
	if err != nil {
		return err
	}

	for i := range opts.frames {
		in := camera.Input{Forward: i < opts.forward}
		if _, err := v.Render(in); err != nil {
			return err
		}
	}

	if err := v.Framebuffer().SavePNG(opts.out); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	f := v.LastFrame()
	logger.Info("snapshot saved",
		"path", opts.out,
		"frame", f.Index,
		"eye", f.Eye,
		"pixels", v.Stats().Pixels,
	)
	return nil
}
