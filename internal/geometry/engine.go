package geometry

import (
	"fmt"
	"sync"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Transformer converts a single coordinate between two CRSs.
type Transformer interface {
	Transform(from, to CRS, x, y float64) (float64, float64, error)
}

// Engine is the geometry capability shared by the resolver and the
// pairer: polygon union, intersection test, axis swap, reprojection and
// WKT serialization. Geometry algebra is delegated to simplefeatures,
// coordinate conversion to the injected Transformer.
type Engine struct {
	tr Transformer
}

// NewEngine creates an Engine backed by the given Transformer.
func NewEngine(tr Transformer) *Engine {
	return &Engine{tr: tr}
}

// Union returns the combined area of a and b. Union is commutative and
// idempotent, so accumulation order and duplicate inputs do not change
// the resulting shape.
func (e *Engine) Union(a, b geom.Geometry) (geom.Geometry, error) {
	u, err := geom.Union(a, b)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("union failed: %w", err)
	}
	return u, nil
}

// Intersects reports whether a and b share at least one point. Boundary
// touching counts; this is not a strict interior-overlap test.
func (e *Engine) Intersects(a, b geom.Geometry) bool {
	return geom.Intersects(a, b)
}

// SwapXY exchanges the X/Y order of every coordinate in g. Used to
// reconcile layers whose CRSs disagree on axis order before reprojecting.
func (e *Engine) SwapXY(g geom.Geometry) (geom.Geometry, error) {
	swapped := g.TransformXY(func(xy geom.XY) geom.XY {
		return geom.XY{X: xy.Y, Y: xy.X}
	})
	return swapped, nil
}

// Reproject converts g from one CRS to another. Identical CRSs are a
// no-op. Callers are expected to apply SwapXY first when NeedsAxisSwap
// says so; Reproject itself assumes X/Y order matching the source CRS.
func (e *Engine) Reproject(g geom.Geometry, from, to CRS) (geom.Geometry, error) {
	if from.Equal(to) {
		return g, nil
	}
	var trErr error
	out := g.TransformXY(func(xy geom.XY) geom.XY {
		x, y, err := e.tr.Transform(from, to, xy.X, xy.Y)
		if err != nil && trErr == nil {
			trErr = err
		}
		return geom.XY{X: x, Y: y}
	})
	if trErr != nil {
		return geom.Geometry{}, fmt.Errorf("reprojecting %s to %s: %w", from, to, trErr)
	}
	return out, nil
}

// ToWKT serializes g as well-known text.
func (e *Engine) ToWKT(g geom.Geometry) string {
	return g.AsText()
}

// EPSGTransformer reprojects coordinates using the pure-Go EPSG
// repository of the wgs84 package. Transform funcs are cached per CRS
// pair so that a whole layer can be reprojected with one lookup.
type EPSGTransformer struct {
	mu    sync.Mutex
	funcs map[[2]int]wgs84.Func
}

// NewEPSGTransformer creates an EPSGTransformer.
func NewEPSGTransformer() *EPSGTransformer {
	return &EPSGTransformer{funcs: make(map[[2]int]wgs84.Func)}
}

// Transform converts (x, y) from one EPSG CRS to another.
func (t *EPSGTransformer) Transform(from, to CRS, x, y float64) (float64, float64, error) {
	fn, err := t.transformFunc(from, to)
	if err != nil {
		return 0, 0, err
	}
	ox, oy, _ := fn(x, y, 0)
	return ox, oy, nil
}

func (t *EPSGTransformer) transformFunc(from, to CRS) (wgs84.Func, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := [2]int{from.Code, to.Code}
	if fn, ok := t.funcs[key]; ok {
		return fn, nil
	}

	epsg := wgs84.EPSG()
	src := epsg.Code(from.Code)
	if src == nil {
		return nil, fmt.Errorf("unsupported CRS %s", from)
	}
	dst := epsg.Code(to.Code)
	if dst == nil {
		return nil, fmt.Errorf("unsupported CRS %s", to)
	}

	fn := wgs84.Transform(src, dst)
	t.funcs[key] = fn
	return fn, nil
}
