package ecs

import (
	"testing"

	"github.com/younwookim/edgeslide/internal/domain/geom"
	"github.com/younwookim/edgeslide/internal/domain/movement"
	"github.com/younwookim/edgeslide/internal/domain/shape"
)

var benchSink uint64

func createBenchWorld(n int) *World {
	w := NewWorld(vec(4096, 4096), 8)
	for i := range n {
		w.CreateDynamic(vec(float64(i%100)*40, float64(i/100)*40), shape.NewRect(vec(30, 30)), ColourDynamic)
	}
	return w
}

func BenchmarkRebuildIndex(b *testing.B) {
	w := createBenchWorld(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.RebuildIndex()
	}
}

func BenchmarkChecksum(b *testing.B) {
	w := createBenchWorld(10_000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchSink += w.Checksum()
	}
}

func BenchmarkAllShapesQuery(b *testing.B) {
	w := createBenchWorld(10_000)
	w.RebuildIndex()
	env := w.AllShapes()
	query := geom.NewAABB(vec(1000, 20), vec(200, 200))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		env.ForEach(query, func(sp movement.ShapePosition) { benchSink += uint64(sp.ID) })
	}
}
