package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glcam/pkg/config"
	"github.com/taigrr/glcam/pkg/render"
	"github.com/taigrr/glcam/pkg/viewer"
)

// size is a terminal size in cells.
type size struct{ w, h int }

// runTerminal runs the frame loop until the context ends or the user quits.
// Device events are read on their own goroutine and folded into an
// InputState; everything else happens on the frame loop.
func runTerminal(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	v, err := viewer.New(cfg, render.NewFramebuffer(render.CellSize(width, height)), logger)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking with SGR coordinates, so motion arrives
	// without a button held.
	fmt.Fprint(os.Stdout, "\x1b[?1003h\x1b[?1006h")

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var input viewer.InputState
	resized := make(chan size, 1)
	toggle := make(chan struct{}, 1)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				// Keep only the newest size
				select {
				case <-resized:
				default:
				}
				resized <- size{ev.Width, ev.Height}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c", "q"):
					cancel()
					return
				case ev.MatchString("x"):
					select {
					case toggle <- struct{}{}:
					default:
					}
				default:
					if k, ok := movementKey(ev.MatchString); ok {
						input.Press(k)
					}
				}

			case uv.KeyReleaseEvent:
				if k, ok := movementKey(ev.MatchString); ok {
					input.Release(k)
				}

			case uv.MouseMotionEvent:
				// Cells are two pixels tall
				input.MoveTo(float64(ev.X), float64(ev.Y)*2)
			}
		}
	}()

	var frames int
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Controller.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("bye", "frames", frames)
			return nil

		case s := <-resized:
			term.Erase()
			term.Resize(s.w, s.h)
			if err := v.Resize(render.NewFramebuffer(render.CellSize(s.w, s.h))); err != nil {
				logger.Warn("resize ignored", "cols", s.w, "rows", s.h, "err", err)
			}

		case <-toggle:
			v.ToggleWireframe()

		case <-ticker.C:
			if _, err := v.Render(input.Drain()); err != nil {
				continue // logged by the rig
			}
			frames++
			v.Framebuffer().Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// movementKey maps W/A/S/D and the arrow keys to movement keys.
func movementKey(match func(...string) bool) (viewer.Key, bool) {
	switch {
	case match("w", "up"):
		return viewer.KeyForward, true
	case match("s", "down"):
		return viewer.KeyBack, true
	case match("a", "left"):
		return viewer.KeyLeft, true
	case match("d", "right"):
		return viewer.KeyRight, true
	}
	return 0, false
}
