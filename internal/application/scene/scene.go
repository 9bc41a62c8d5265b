// Package scene defines what the game loop drives each tick.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is one screen of the game. The loop calls Update then Draw once per
// tick and switches to whatever Scene Update returns.
type Scene interface {
	// Update advances the scene. dt is the tick length in seconds. A non-nil
	// next replaces this scene; a non-nil err stops the game, and
	// ebiten.Termination stops it cleanly.
	Update(dt float64) (next Scene, err error)

	Draw(screen *ebiten.Image)

	// OnEnter runs each time the scene becomes current.
	OnEnter()

	// OnExit runs when the scene is replaced or the game stops.
	OnExit()
}
