// Package playing provides the main gameplay scene.
package playing

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/younwookim/edgeslide/internal/application/replay"
	"github.com/younwookim/edgeslide/internal/application/scene"
	"github.com/younwookim/edgeslide/internal/application/state"
	"github.com/younwookim/edgeslide/internal/application/system"
	"github.com/younwookim/edgeslide/internal/domain/shape"
	"github.com/younwookim/edgeslide/internal/ecs"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
	"github.com/younwookim/edgeslide/internal/infrastructure/logging"
)

var (
	colorOverlay  = color.RGBA{0, 0, 0, 150}
	colorRecord   = color.RGBA{220, 40, 40, 255}
	colorMismatch = color.RGBA{120, 0, 0, 150}
)

// InputSource supplies keyboard state once per frame. *system.InputSystem
// reads the real keyboard.
type InputSource interface {
	GetInput() system.InputState
	GetControls() system.Controls
}

// Options configures a Playing scene.
type Options struct {
	Loader  *config.Loader
	Physics *config.PhysicsConfig
	Level   string

	// RecordPath starts recording from the first frame. The recording is
	// saved there when recording stops or the scene exits.
	RecordPath string

	// Replay plays recorded input instead of the keyboard. Its level
	// overrides Level.
	Replay *replay.ReplayData

	// Reloads carries names of level files changed on disk.
	Reloads <-chan string

	Input  InputSource
	Logger *zap.Logger
}

// Playing is the main gameplay scene
type Playing struct {
	loader  *config.Loader
	physics *config.PhysicsConfig
	level   string

	world         *ecs.World
	physicsSystem *system.PhysicsSystem
	input         InputSource
	model         system.InputModel
	state         state.GameState
	resume        state.GameState // state to return to from Paused
	err           error

	reloads <-chan string
	logger  *zap.Logger

	// Input recording
	recorder   *replay.Recorder
	recordPath string

	// Playback
	replayer    *replay.Replayer
	replayMatch bool
}

// New creates a Playing scene and loads its level.
func New(opts Options) (*Playing, error) {
	if opts.Loader == nil || opts.Physics == nil {
		return nil, errors.New("playing: loader and physics config are required")
	}
	logger := logging.OrNop(opts.Logger)

	input := opts.Input
	if input == nil {
		input = system.NewInputSystem()
	}

	p := &Playing{
		loader:        opts.Loader,
		physics:       opts.Physics,
		level:         opts.Level,
		world:         ecs.NewWorld(cp.Vector{X: opts.Physics.World.Width, Y: opts.Physics.World.Height}, opts.Physics.World.MaxDepth),
		physicsSystem: system.NewPhysicsSystem(opts.Physics, logger),
		input:         input,
		reloads:       opts.Reloads,
		logger:        logger,
		recordPath:    opts.RecordPath,
		state:         state.StateLoading,
	}
	if opts.Replay != nil {
		p.replayer = replay.NewReplayer(*opts.Replay)
		p.level = opts.Replay.Level
	}

	if err := p.load(); err != nil {
		return nil, err
	}
	if opts.RecordPath != "" && p.replayer == nil {
		p.recorder = replay.NewRecorder(p.level)
	}
	return p, nil
}

func (p *Playing) String() string {
	return "playing"
}

// World returns the simulated world.
func (p *Playing) World() *ecs.World {
	return p.world
}

// State returns the current game state.
func (p *Playing) State() state.GameState {
	return p.state
}

// Err returns the error that moved the scene to StateFailed.
func (p *Playing) Err() error {
	return p.err
}

// Recording reports whether input is being recorded.
func (p *Playing) Recording() bool {
	return p.recorder != nil
}

// ReplayMatched reports whether a finished replay reproduced its recorded
// checksum.
func (p *Playing) ReplayMatched() bool {
	return p.replayMatch
}

// load reads the level from disk into a fresh world.
func (p *Playing) load() error {
	cfg, err := p.loader.LoadLevel(p.level)
	if err != nil {
		return err
	}
	if err := p.world.LoadLevel(cfg); err != nil {
		return err
	}
	p.physicsSystem.Reset()
	p.model = system.InputModel{}
	p.err = nil
	p.replayMatch = false

	p.state = state.StatePlaying
	if p.replayer != nil {
		p.replayer.Reset()
		p.state = state.StateReplaying
	}
	p.resume = p.state
	return nil
}

// restart reloads the level. An active recording is saved and a new one
// starts on the fresh world.
func (p *Playing) restart() {
	recording := p.recorder != nil
	if recording {
		p.stopRecording()
	}
	if err := p.load(); err != nil {
		p.fail(err)
		return
	}
	if recording {
		p.startRecording()
	}
	p.logger.Info("level started",
		zap.String("level", p.level),
		zap.Int("entities", len(p.world.IDs())))
}

func (p *Playing) fail(err error) {
	p.err = err
	p.state = state.StateFailed
	p.logger.Error("simulation stopped", zap.String("level", p.level), zap.Error(err))
	if p.recorder != nil {
		p.stopRecording()
	}
}

// Update implements scene.Scene. The world advances one frame per call.
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	p.drainReloads()

	controls := p.input.GetControls()
	if controls.Quit {
		return nil, ebiten.Termination
	}
	if controls.Reset {
		p.restart()
		return nil, nil
	}
	if controls.Record && p.replayer == nil {
		if p.recorder != nil {
			p.stopRecording()
		} else {
			p.restart()
			if p.state != state.StateFailed {
				p.startRecording()
			}
		}
	}
	if controls.Pause {
		switch {
		case p.state == state.StatePaused:
			p.state = p.resume
		case p.state.Simulating():
			p.resume = p.state
			p.state = state.StatePaused
		}
	}

	if !p.state.Simulating() {
		return nil, nil
	}

	var in system.InputState
	if p.replayer != nil {
		var ok bool
		if in, ok = p.replayer.GetInput(); !ok {
			p.finishReplay()
			return nil, nil
		}
	} else {
		in = p.input.GetInput()
	}

	if p.recorder != nil {
		p.recorder.RecordFrame(in)
	}
	if err := p.physicsSystem.Step(p.world, &p.model, in); err != nil {
		p.fail(err)
		return nil, nil
	}
	if p.replayer != nil && p.replayer.Done() {
		p.finishReplay()
	}
	return nil, nil
}

func (p *Playing) drainReloads() {
	for {
		select {
		case name, ok := <-p.reloads:
			if !ok {
				p.reloads = nil
				return
			}
			if name != p.level {
				continue
			}
			p.logger.Info("level changed on disk", zap.String("level", name))
			p.restart()
		default:
			return
		}
	}
}

func (p *Playing) finishReplay() {
	sum := p.world.Checksum()
	recorded := p.replayer.Checksum()
	p.replayMatch = recorded == 0 || recorded == sum
	p.state = state.StateReplayDone

	fields := []zap.Field{
		zap.String("level", p.level),
		zap.Int("frames", p.replayer.TotalFrames()),
		zap.Uint64("checksum", sum),
	}
	if p.replayMatch {
		p.logger.Info("replay finished", fields...)
	} else {
		p.logger.Warn("replay diverged", append(fields, zap.Uint64("recorded", recorded))...)
	}
}

func (p *Playing) startRecording() {
	p.recorder = replay.NewRecorder(p.level)
	p.logger.Info("recording started", zap.String("replay", p.recorder.ID()))
}

// stopRecording finishes the recording with the current world checksum and
// saves it.
func (p *Playing) stopRecording() {
	r := p.recorder
	p.recorder = nil
	r.Stop(p.world.Checksum())
	if r.FrameCount() == 0 {
		return
	}

	filename := p.recordPath
	if filename == "" {
		filename = replay.GenerateFilename()
	}
	if err := r.Save(filename); err != nil {
		p.logger.Error("failed to save recording", zap.String("file", filename), zap.Error(err))
		return
	}
	p.logger.Info("recording saved",
		zap.String("file", filename),
		zap.String("replay", r.ID()),
		zap.Int("frames", r.FrameCount()))
}

// Draw implements scene.Scene.
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(p.world.Background)

	for _, id := range p.world.IDs() {
		s, ok := p.world.Shape[id]
		if !ok {
			continue
		}
		pos, ok := p.world.Position[id]
		if !ok {
			continue
		}
		drawShape(screen, s, pos, p.world.Colour[id])
	}

	p.drawStatus(screen)

	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, colorOverlay, "PAUSED\n\nP: resume")
	case state.StateFailed:
		p.drawOverlay(screen, colorOverlay, fmt.Sprintf("STOPPED\n\n%v\n\nEnter: reload", p.err))
	case state.StateReplayDone:
		if p.replayMatch {
			p.drawOverlay(screen, colorOverlay, "REPLAY FINISHED\n\nEnter: watch again")
		} else {
			p.drawOverlay(screen, colorMismatch, "REPLAY DIVERGED\n\nEnter: watch again")
		}
	}
}

func drawShape(screen *ebiten.Image, s *shape.Shape, pos cp.Vector, c color.Color) {
	switch s.Kind {
	case shape.KindRect:
		vector.DrawFilledRect(screen, float32(pos.X), float32(pos.Y), float32(s.Size.X), float32(s.Size.Y), c, false)
	case shape.KindSegment:
		a, b := pos.Add(s.Start), pos.Add(s.End)
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, c, true)
	}
}

func (p *Playing) drawStatus(screen *ebiten.Image) {
	status := fmt.Sprintf("%s  frame %d  %s", p.level, p.world.Frame, p.state)
	switch {
	case p.recorder != nil:
		status += fmt.Sprintf("  REC %d", p.recorder.FrameCount())
		w := screen.Bounds().Dx()
		vector.DrawFilledCircle(screen, float32(w-16), 16, 6, colorRecord, true)
	case p.replayer != nil:
		status += fmt.Sprintf("  REPLAY %d/%d", p.replayer.CurrentFrame(), p.replayer.TotalFrames())
	}
	if n, jumping := p.physicsSystem.Jump().Frames(); jumping {
		status += fmt.Sprintf("  jump %d", n)
	}
	ebitenutil.DebugPrint(screen, status)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, text string) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), c, false)
	ebitenutil.DebugPrintAt(screen, text, b.Dx()/2-80, b.Dy()/2-30)
}

// OnEnter implements scene.Scene.
func (p *Playing) OnEnter() {
	p.logger.Info("level started",
		zap.String("level", p.level),
		zap.String("state", p.state.String()),
		zap.Int("entities", len(p.world.IDs())))
}

// OnExit implements scene.Scene. An active recording is saved.
func (p *Playing) OnExit() {
	if p.recorder != nil {
		p.stopRecording()
	}
}
