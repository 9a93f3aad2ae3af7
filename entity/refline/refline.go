package refline

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
)

// ReferenceLine 参考线实体
// 功能：表示一条车道中心线，提供xy坐标与sl坐标之间的转换
// 说明：s为沿中心线的累计长度，l为相对中心线的横向偏移，左正右负
type ReferenceLine struct {
	id string

	sideIDs        [2][]string                  // 左/右侧参考线ID（按距离从近到远排序）
	lineLengths    []float64                    // 中心线折线点对应的长度列表
	length         float64                      // 中心线长度
	lineDirections []geometry.PolylineDirection // 中心线折线段每一段的方向（atan2）
	line           []geometry.Point             // 中心线折线
}

// New 创建参考线
// 功能：根据中心线折线创建参考线，计算折线长度与方向
// 参数：id-参考线ID，line-中心线折线（至少两个点），left/right-左右相邻参考线ID
// 返回：初始化完成的参考线
func New(id string, line []geometry.Point, left, right []string) *ReferenceLine {
	if len(line) < 2 {
		log.Panicf("reference line %s needs at least 2 points, got %d", id, len(line))
	}
	r := &ReferenceLine{
		id:      id,
		sideIDs: [2][]string{left, right},
		line:    line,
	}
	r.lineLengths = geometry.GetPolylineLengths2D(r.line)
	r.length = r.lineLengths[len(r.lineLengths)-1]
	r.lineDirections = geometry.GetPolylineDirections(r.line)
	return r
}

func (r *ReferenceLine) String() string {
	return fmt.Sprintf("ReferenceLine %s", r.id)
}

func (r *ReferenceLine) ID() string {
	return r.id
}

func (r *ReferenceLine) Length() float64 {
	return r.length
}

func (r *ReferenceLine) NeighborIDs(side int) []string {
	return r.sideIDs[side]
}

// 根据s坐标计算切向角度
func (r *ReferenceLine) HeadingByS(s float64) float64 {
	s = lo.Clamp(s, r.lineLengths[0], r.length)
	if i := sort.SearchFloat64s(r.lineLengths, s); i == 0 {
		return r.lineDirections[0].Direction
	} else {
		return r.lineDirections[i-1].Direction
	}
}

// 将s坐标转换为中心线上的xy坐标，超出范围时沿端点切向延长
func (r *ReferenceLine) positionByS(s float64) geometry.Point {
	if s <= 0 {
		return extend(r.line[0], r.lineDirections[0].Direction, s)
	}
	if s >= r.length {
		return extend(r.line[len(r.line)-1], r.lineDirections[len(r.lineDirections)-1].Direction, s-r.length)
	}
	i := sort.SearchFloat64s(r.lineLengths, s)
	if i == 0 {
		return r.line[0]
	}
	sHigh, sLow := r.lineLengths[i], r.lineLengths[i-1]
	k := (s - sLow) / (sHigh - sLow)
	return geometry.Blend(r.line[i-1], r.line[i], k)
}

// XYToSL 将xy坐标投影到参考线上
// 功能：计算点在参考线坐标系下的纵向距离s与横向偏移l
// 算法说明：
// 1. 求折线上离该点最近的位置，得到s
// 2. 以该处切向为基准，切向分量修正s（仅在端点之外生效），法向分量即为l（左正右负）
func (r *ReferenceLine) XYToSL(p geometry.Point) entity.SLPoint {
	s := lo.Clamp(geometry.GetClosestPolylineSToPoint2D(r.line, r.lineLengths, p), 0, r.length)
	base := r.positionByS(s)
	d := p.Sub(base)
	dir := geometry.Point{X: 1}.Rotate(r.HeadingByS(s))
	along := dir.Dot2D(d)
	if s <= 0 && along < 0 || s >= r.length && along > 0 {
		s += along
	}
	return entity.SLPoint{
		S: s,
		L: dir.Cross2D(d),
	}
}

// SLToXY 将sl坐标转换为xy坐标
func (r *ReferenceLine) SLToXY(sl entity.SLPoint) geometry.Point {
	offset := geometry.Point{Y: sl.L}.Rotate(r.HeadingByS(sl.S))
	return r.positionByS(sl.S).Add(offset)
}

func extend(p geometry.Point, heading, distance float64) geometry.Point {
	p.MoveDirection2D(heading, distance)
	return p
}
