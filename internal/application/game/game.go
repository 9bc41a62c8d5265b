// Package game runs the active scene inside ebiten's loop.
package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/application/scene"
	"github.com/younwookim/edgeslide/internal/infrastructure/logging"
)

// Game implements ebiten.Game on top of a Scene.
type Game struct {
	current scene.Scene
	logger  *zap.Logger
	screenW int
	screenH int
	dt      float64
	ticks   uint64
}

// New creates a Game showing initialScene, whose OnEnter runs immediately.
// The simulation is frame based, so dt is one tick at ebiten's default TPS.
func New(initialScene scene.Scene, screenW, screenH int, logger *zap.Logger) *Game {
	g := &Game{
		current: initialScene,
		logger:  logging.OrNop(logger),
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / float64(ebiten.DefaultTPS),
	}
	g.current.OnEnter()
	return g
}

// Update advances the current scene by one tick and switches scenes when it
// asks to. When the scene stops the game its OnExit still runs, so anything
// it holds open gets flushed.
func (g *Game) Update() error {
	g.ticks++
	next, err := g.current.Update(g.dt)
	if err != nil {
		g.current.OnExit()
		if !errors.Is(err, ebiten.Termination) {
			g.logger.Error("scene failed", zap.Uint64("tick", g.ticks), zap.Error(err))
		}
		return err
	}

	if next != nil {
		g.logger.Debug("scene transition",
			zap.String("from", sceneName(g.current)),
			zap.String("to", sceneName(next)),
			zap.Uint64("tick", g.ticks))
		g.current.OnExit()
		g.current = next
		g.current.OnEnter()
	}

	return nil
}

// Draw renders the current scene.
func (g *Game) Draw(screen *ebiten.Image) {
	g.current.Draw(screen)
}

// Layout keeps the logical screen size fixed regardless of the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// Ticks returns how many times Update has run.
func (g *Game) Ticks() uint64 {
	return g.ticks
}

// SetDT overrides the delta time passed to scenes.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

func sceneName(s scene.Scene) string {
	if n, ok := s.(fmt.Stringer); ok {
		return n.String()
	}
	return fmt.Sprintf("%T", s)
}
