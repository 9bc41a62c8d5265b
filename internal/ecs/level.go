package ecs

import (
	"fmt"
	"image/color"

	"github.com/younwookim/edgeslide/internal/domain/shape"
	"github.com/younwookim/edgeslide/internal/infrastructure/config"
	"github.com/younwookim/edgeslide/internal/infrastructure/motion"
)

// LoadLevel clears the world and populates it from a level config. Entities
// get ids in the order they appear in the file. On error the world is left
// empty.
func (w *World) LoadLevel(cfg *config.LevelConfig) error {
	w.Clear()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Background != nil {
		w.Background = cfg.Background.NRGBA
	}

	for i := range cfg.Entities {
		if err := w.addEntity(&cfg.Entities[i]); err != nil {
			w.Clear()
			return fmt.Errorf("failed to load entity %d of level %s: %w", i, cfg.ID, err)
		}
	}
	w.RebuildIndex()
	return nil
}

func (w *World) addEntity(e *config.EntityConfig) error {
	s, err := buildShape(&e.Shape)
	if err != nil {
		return err
	}
	pos := e.Position.Vector()

	var id EntityID
	switch e.Role {
	case config.RolePlayer:
		id = w.CreatePlayer(pos, s, colourOr(e.Colour, ColourPlayer))
	case config.RoleDynamic:
		id = w.CreateDynamic(pos, s, colourOr(e.Colour, ColourDynamic))
	case config.RoleStatic:
		id = w.CreateStatic(pos, s, colourOr(e.Colour, ColourStatic))
	case config.RolePlatform:
		src, err := motion.FromConfig(e.Motion)
		if err != nil {
			return err
		}
		id = w.CreatePlatform(pos, s, colourOr(e.Colour, ColourPlatform), src)
	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownRole, e.Role)
	}

	if e.Name != "" {
		w.Name[id] = e.Name
	}
	return nil
}

func buildShape(c *config.ShapeConfig) (shape.Shape, error) {
	switch c.Kind {
	case config.ShapeRect:
		return shape.NewRect(c.Size.Vector()), nil
	case config.ShapeCharacter:
		return shape.NewCharacter(c.Size.Vector()), nil
	case config.ShapeFloorOnly:
		return shape.NewFloorOnly(c.Size.Vector()), nil
	case config.ShapeSegment:
		if c.LeftSolid() {
			return shape.NewSegmentLeftSolid(c.Start.Vector(), c.End.Vector()), nil
		}
		return shape.NewSegmentBothSolid(c.Start.Vector(), c.End.Vector()), nil
	default:
		return shape.Shape{}, fmt.Errorf("%w: %q", config.ErrUnknownShape, c.Kind)
	}
}

func colourOr(c *config.Colour, fallback color.NRGBA) color.NRGBA {
	if c == nil {
		return fallback
	}
	return c.NRGBA
}
