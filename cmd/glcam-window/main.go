// glcam-window - desktop camera viewer
// The same scene as glcam, blitted into a window.
//
// Controls:
//
//	W/S   - Move forward/back
//	A/D   - Strafe left/right
//	Mouse - Look around (mouselook camera captures the cursor)
//	X     - Toggle wireframe mode
//	Esc   - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/config"
	"github.com/taigrr/glcam/pkg/render"
	"github.com/taigrr/glcam/pkg/viewer"
)

var version = "dev"

const (
	screenWidth  = 640
	screenHeight = 360
)

var movementKeys = map[ebiten.Key]viewer.Key{
	ebiten.KeyW:          viewer.KeyForward,
	ebiten.KeyArrowUp:    viewer.KeyForward,
	ebiten.KeyS:          viewer.KeyBack,
	ebiten.KeyArrowDown:  viewer.KeyBack,
	ebiten.KeyA:          viewer.KeyLeft,
	ebiten.KeyArrowLeft:  viewer.KeyLeft,
	ebiten.KeyD:          viewer.KeyRight,
	ebiten.KeyArrowRight: viewer.KeyRight,
}

// Game adapts a viewer.Viewer to ebiten's update/draw loop.
type Game struct {
	viewer *viewer.Viewer
	logger *log.Logger
	input  viewer.InputState
	pixels []byte
	frames int
	ctx    context.Context
}

// NewGame creates a game rendering at the fixed logical screen size.
func NewGame(ctx context.Context, cfg config.Config, logger *log.Logger) (*Game, error) {
	v, err := viewer.New(cfg, render.NewFramebuffer(screenWidth, screenHeight), logger)
	if err != nil {
		return nil, err
	}
	return &Game{
		viewer: v,
		logger: logger,
		pixels: make([]byte, 4*screenWidth*screenHeight),
		ctx:    ctx,
	}, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.logger.Info("bye", "frames", g.frames)
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) {
		g.viewer.ToggleWireframe()
	}

	down := map[viewer.Key]bool{}
	for ek, k := range movementKeys {
		if ebiten.IsKeyPressed(ek) {
			down[k] = true
		}
	}
	for _, k := range []viewer.Key{viewer.KeyForward, viewer.KeyBack, viewer.KeyLeft, viewer.KeyRight} {
		if down[k] {
			g.input.Press(k)
		} else {
			g.input.Release(k)
		}
	}

	x, y := ebiten.CursorPosition()
	g.input.MoveTo(float64(x), float64(y))

	// Rejected frames are logged by the rig; the previous image stays up.
	if _, err := g.viewer.Render(g.input.Drain()); err == nil {
		g.frames++
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.viewer.Framebuffer().CopyRGBA(g.pixels)
	screen.WritePixels(g.pixels)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()
	cfg.Projection.Aspect = float64(screenWidth) / float64(screenHeight)

	root := &cobra.Command{
		Use:   "glcam-window [model.obj|model.glb]",
		Short: "Fly a camera around a 3D model in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Model = args[0]
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr(), log.Options{Prefix: "glcam", ReportTimestamp: true})

			game, err := NewGame(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
			ebiten.SetWindowTitle("glcam")
			ebiten.SetTPS(cfg.Controller.FPS)
			if cfg.Scheme == camera.SchemeMouseLook {
				ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			}

			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return fmt.Errorf("run window: %w", err)
			}
			return nil
		},
	}
	cfg.BindFlags(root.Flags())
	return root
}
