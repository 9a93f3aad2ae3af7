package refline_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity/refline"
)

func straight() *refline.ReferenceLine {
	return refline.New("1", []geometry.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}}, []string{"2"}, nil)
}

func TestXYToSLStraight(t *testing.T) {
	r := straight()
	assert.Equal(t, 100.0, r.Length())

	sl := r.XYToSL(geometry.Point{X: 30, Y: 2})
	assert.InDelta(t, 30, sl.S, 1e-6)
	assert.InDelta(t, 2, sl.L, 1e-6)

	sl = r.XYToSL(geometry.Point{X: 70, Y: -1.5})
	assert.InDelta(t, 70, sl.S, 1e-6)
	assert.InDelta(t, -1.5, sl.L, 1e-6)
}

func TestXYToSLBeyondEnds(t *testing.T) {
	r := straight()
	sl := r.XYToSL(geometry.Point{X: 120, Y: 1})
	assert.InDelta(t, 120, sl.S, 1e-6)
	assert.InDelta(t, 1, sl.L, 1e-6)

	sl = r.XYToSL(geometry.Point{X: -10, Y: -1})
	assert.InDelta(t, -10, sl.S, 1e-6)
	assert.InDelta(t, -1, sl.L, 1e-6)
}

func TestSLToXYRoundTrip(t *testing.T) {
	r := refline.New("v", []geometry.Point{{X: 0, Y: 0}, {X: 0, Y: 40}}, nil, nil)
	// 朝向+y，左侧为-x
	assert.InDelta(t, math.Pi/2, r.HeadingByS(10), 1e-9)
	p := r.SLToXY(entity.SLPoint{S: 10, L: 2})
	assert.InDelta(t, -2, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)
	sl := r.XYToSL(p)
	assert.InDelta(t, 10, sl.S, 1e-6)
	assert.InDelta(t, 2, sl.L, 1e-6)
}

func TestSLToXYDiagonalAndExtended(t *testing.T) {
	r := refline.New("d", []geometry.Point{{X: 0, Y: 0, Z: 1}, {X: 30, Y: 40, Z: 1}}, nil, nil)
	assert.InDelta(t, 50, r.Length(), 1e-9)

	// 朝向(0.6, 0.8)，左侧法向(-0.8, 0.6)
	p := r.SLToXY(entity.SLPoint{S: 25, L: 5})
	assert.InDelta(t, 11, p.X, 1e-9)
	assert.InDelta(t, 23, p.Y, 1e-9)
	assert.InDelta(t, 1, p.Z, 1e-9)
	sl := r.XYToSL(p)
	assert.InDelta(t, 25, sl.S, 1e-6)
	assert.InDelta(t, 5, sl.L, 1e-6)

	// 终点之后沿切向延长
	p = r.SLToXY(entity.SLPoint{S: 60, L: -5})
	assert.InDelta(t, 40, p.X, 1e-9)
	assert.InDelta(t, 45, p.Y, 1e-9)
	sl = r.XYToSL(p)
	assert.InDelta(t, 60, sl.S, 1e-6)
	assert.InDelta(t, -5, sl.L, 1e-6)
}

func TestManager(t *testing.T) {
	m := refline.NewManager()
	m.Add(straight())
	assert.Equal(t, "1", m.Get("1").ID())
	assert.Equal(t, []string{"2"}, m.Get("1").NeighborIDs(entity.LEFT))
	assert.Empty(t, m.Get("1").NeighborIDs(entity.RIGHT))
	_, err := m.GetOrError("3")
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get("3") })
	assert.Panics(t, func() { m.Add(straight()) })
	assert.Equal(t, "42", refline.LaneID(42))
}
