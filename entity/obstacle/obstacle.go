package obstacle

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/randengine"
)

const (
	predictHorizon  = 8.0 // 预测时长（秒）
	predictInterval = 0.5 // 预测轨迹点间隔（秒）
)

// Obstacle 障碍物实体
// 功能：维护障碍物跨周期的运动状态，每个周期产生感知多边形与预测轨迹
// 说明：障碍物沿所在车道匀速运动，朝向偏离车道方向超过π/2时沿车道反向行驶
type Obstacle struct {
	id      string
	virtual bool
	static  bool
	predict bool

	lane          entity.IReferenceLine // 所在车道
	s             float64               // 中心在车道上的位置
	l             float64               // 横向偏移
	speed         float64               // 速度（米/秒）
	headingOffset float64               // 相对车道方向的朝向（弧度）
	length        float64
	width         float64

	snapshot Snapshot // 本周期感知结果
}

// newObstacle 根据场景数据创建障碍物
func newObstacle(spec input.ObstacleSpec, lane entity.IReferenceLine) *Obstacle {
	return &Obstacle{
		id:            spec.ID,
		virtual:       spec.Virtual,
		static:        spec.Static,
		predict:       spec.Predict,
		lane:          lane,
		s:             spec.S,
		l:             spec.L,
		speed:         spec.Speed,
		headingOffset: spec.HeadingOffset,
		length:        spec.Length,
		width:         spec.Width,
	}
}

func (o *Obstacle) String() string {
	return fmt.Sprintf("Obstacle{id=%s, lane=%s, s=%.2f, l=%.2f, v=%.2f}", o.id, o.lane.ID(), o.s, o.l, o.speed)
}

// 沿车道方向的速度分量
func (o *Obstacle) longitudinalV() float64 {
	if o.static {
		return 0
	}
	return o.speed * math.Cos(o.headingOffset)
}

// prepare 准备阶段
// 功能：推进障碍物位置并生成本周期的感知多边形与预测轨迹
// 参数：dt-时间步长，generator-噪声随机数引擎，noiseStd-多边形顶点位置噪声标准差
func (o *Obstacle) prepare(dt float64, generator *randengine.Engine, noiseStd float64) {
	o.s += o.longitudinalV() * dt
	center := o.lane.SLToXY(entity.SLPoint{S: o.s, L: o.l})
	heading := o.lane.HeadingByS(o.s) + o.headingOffset
	polygon := lo.Map(BoxCorners(center, heading, o.length, o.width), func(p geometry.Point, _ int) geometry.Point {
		return geometry.Point{
			X: generator.Gaussian(p.X, noiseStd),
			Y: generator.Gaussian(p.Y, noiseStd),
			Z: p.Z,
		}
	})
	var trajectory []entity.TrajectoryPoint
	if o.predict {
		trajectory = o.predictTrajectory()
	}
	speed := o.speed
	if o.static {
		speed = 0
	}
	o.snapshot = Snapshot{
		ID:         o.id,
		Virtual:    o.virtual,
		Static:     o.static,
		Polygon:    polygon,
		Trajectory: trajectory,
		Speed:      speed,
	}
}

// predictTrajectory 匀速沿车道的轨迹预测
func (o *Obstacle) predictTrajectory() []entity.TrajectoryPoint {
	n := int(predictHorizon/predictInterval) + 1
	points := make([]entity.TrajectoryPoint, 0, n)
	for i := range n {
		t := float64(i) * predictInterval
		s := o.s + o.longitudinalV()*t
		points = append(points, entity.TrajectoryPoint{
			Position:     o.lane.SLToXY(entity.SLPoint{S: s, L: o.l}),
			Theta:        o.lane.HeadingByS(s) + o.headingOffset,
			V:            o.speed,
			RelativeTime: t,
		})
	}
	return points
}

// BoxCorners 计算以center为中心、朝向heading的矩形四个角点（逆时针）
func BoxCorners(center geometry.Point, heading, length, width float64) []geometry.Point {
	halfL, halfW := length/2, width/2
	corners := []geometry.Point{{X: halfL, Y: halfW}, {X: -halfL, Y: halfW}, {X: -halfL, Y: -halfW}, {X: halfL, Y: -halfW}}
	return lo.Map(corners, func(c geometry.Point, _ int) geometry.Point {
		return c.Rotate(heading).Add(center)
	})
}
