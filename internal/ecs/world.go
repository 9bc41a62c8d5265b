package ecs

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/jakecoffman/cp"

	"github.com/younwookim/edgeslide/internal/domain/geom"
	"github.com/younwookim/edgeslide/internal/domain/movement"
	"github.com/younwookim/edgeslide/internal/domain/shape"
	"github.com/younwookim/edgeslide/internal/domain/spatial"
	"github.com/younwookim/edgeslide/internal/infrastructure/motion"
)

// World holds all component maps, the spatial index and the next entity ID
type World struct {
	nextID EntityID
	order  []EntityID // live ids, ascending

	// Components
	Position map[EntityID]cp.Vector
	Velocity map[EntityID]cp.Vector
	Shape    map[EntityID]*shape.Shape
	Colour   map[EntityID]color.NRGBA
	Name     map[EntityID]string
	Motion   map[EntityID]motion.Source

	// Tags
	IsDynamic  map[EntityID]struct{} // moved by the movement phase
	IsPlatform map[EntityID]struct{} // moved by its Motion, displaces dynamic entities

	// Singleton references
	PlayerID   EntityID
	Frame      uint64
	Background color.NRGBA

	index *spatial.LooseQuadTree[EntityID]
}

// NewWorld creates an empty world whose spatial index covers size.
func NewWorld(size cp.Vector, maxDepth int) *World {
	return &World{
		nextID:     1, // 0 is "nil"
		Position:   make(map[EntityID]cp.Vector),
		Velocity:   make(map[EntityID]cp.Vector),
		Shape:      make(map[EntityID]*shape.Shape),
		Colour:     make(map[EntityID]color.NRGBA),
		Name:       make(map[EntityID]string),
		Motion:     make(map[EntityID]motion.Source),
		IsDynamic:  make(map[EntityID]struct{}),
		IsPlatform: make(map[EntityID]struct{}),
		Background: color.NRGBA{A: 0xff},
		index:      spatial.New[EntityID](size, maxDepth),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.order = append(w.order, id)
	return id
}

// DestroyEntity removes all components for an entity. The index keeps the
// entity until the next RebuildIndex.
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Position, id)
	delete(w.Velocity, id)
	delete(w.Shape, id)
	delete(w.Colour, id)
	delete(w.Name, id)
	delete(w.Motion, id)
	delete(w.IsDynamic, id)
	delete(w.IsPlatform, id)
	if i, ok := slices.BinarySearch(w.order, id); ok {
		w.order = slices.Delete(w.order, i, i+1)
	}
	if w.PlayerID == id {
		w.PlayerID = 0
	}
}

// Exists checks if an entity has Position component
func (w *World) Exists(id EntityID) bool {
	_, ok := w.Position[id]
	return ok
}

// Clear removes every entity and restarts IDs at 1.
func (w *World) Clear() {
	w.nextID = 1
	w.order = w.order[:0]
	clear(w.Position)
	clear(w.Velocity)
	clear(w.Shape)
	clear(w.Colour)
	clear(w.Name)
	clear(w.Motion)
	clear(w.IsDynamic)
	clear(w.IsPlatform)
	w.PlayerID = 0
	w.Frame = 0
	w.Background = color.NRGBA{A: 0xff}
	w.index.Clear()
}

// IDs returns the live entity ids in ascending order. The slice is owned by
// the world and is only valid until the next entity is created or destroyed.
func (w *World) IDs() []EntityID {
	return w.order
}

func (w *World) addBody(pos cp.Vector, s shape.Shape, colour color.NRGBA) EntityID {
	id := w.NewEntity()
	w.Position[id] = pos
	w.Shape[id] = &s
	w.Colour[id] = colour
	return id
}

// CreatePlayer creates the input-driven entity.
func (w *World) CreatePlayer(pos cp.Vector, s shape.Shape, colour color.NRGBA) EntityID {
	id := w.CreateDynamic(pos, s, colour)
	w.PlayerID = id
	return id
}

// CreateDynamic creates an entity moved by its velocity.
func (w *World) CreateDynamic(pos cp.Vector, s shape.Shape, colour color.NRGBA) EntityID {
	id := w.addBody(pos, s, colour)
	w.Velocity[id] = cp.Vector{}
	w.IsDynamic[id] = struct{}{}
	return id
}

// CreateStatic creates an entity that never moves.
func (w *World) CreateStatic(pos cp.Vector, s shape.Shape, colour color.NRGBA) EntityID {
	return w.addBody(pos, s, colour)
}

// CreatePlatform creates an entity driven by src that carries and pushes
// dynamic entities.
func (w *World) CreatePlatform(pos cp.Vector, s shape.Shape, colour color.NRGBA, src motion.Source) EntityID {
	id := w.addBody(pos, s, colour)
	w.Velocity[id] = cp.Vector{}
	w.Motion[id] = src
	w.IsPlatform[id] = struct{}{}
	return id
}

// GetPlayerPosition returns the player's position
func (w *World) GetPlayerPosition() cp.Vector {
	return w.Position[w.PlayerID]
}

// ShapePosition returns the collision view of an entity.
func (w *World) ShapePosition(id EntityID) (movement.ShapePosition, bool) {
	s, ok := w.Shape[id]
	if !ok {
		return movement.ShapePosition{}, false
	}
	pos, ok := w.Position[id]
	if !ok {
		return movement.ShapePosition{}, false
	}
	return movement.ShapePosition{ID: id, Shape: s, Position: pos}, true
}

// RebuildIndex reinserts every entity at its current bounds, in id order.
func (w *World) RebuildIndex() {
	w.index.Clear()
	for _, id := range w.order {
		if sp, ok := w.ShapePosition(id); ok {
			w.index.Insert(sp.AABB(), id)
		}
	}
}

// mustShapePosition is used for ids coming out of the index: an indexed
// entity without a shape or position means the index is stale.
func (w *World) mustShapePosition(id EntityID) movement.ShapePosition {
	sp, ok := w.ShapePosition(id)
	if !ok {
		panic(fmt.Sprintf("ecs: indexed entity %d has no shape or position", id))
	}
	return sp
}

type allShapes struct{ w *World }

func (e allShapes) ForEach(query geom.AABB, f func(movement.ShapePosition)) {
	e.w.index.ForEachIntersecting(query, func(_ geom.AABB, id EntityID) {
		f(e.w.mustShapePosition(id))
	})
}

type dynamicShapes struct{ w *World }

func (e dynamicShapes) ForEach(query geom.AABB, f func(movement.ShapePosition)) {
	e.w.index.ForEachIntersecting(query, func(_ geom.AABB, id EntityID) {
		if _, ok := e.w.IsDynamic[id]; ok {
			f(e.w.mustShapePosition(id))
		}
	})
}

// AllShapes is the environment of every indexed entity.
func (w *World) AllShapes() movement.Environment {
	return allShapes{w}
}

// DynamicShapes is the environment of indexed dynamic entities only.
func (w *World) DynamicShapes() movement.Environment {
	return dynamicShapes{w}
}

// Checksum hashes the frame counter and every entity's id, position and
// velocity in id order. Two worlds that simulated the same inputs from the
// same level have equal checksums.
func (w *World) Checksum() uint64 {
	h := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	putVec := func(v cp.Vector) {
		put(math.Float64bits(v.X))
		put(math.Float64bits(v.Y))
	}

	put(w.Frame)
	for _, id := range w.order {
		put(uint64(id))
		putVec(w.Position[id])
		putVec(w.Velocity[id])
	}
	return h.Sum64()
}
