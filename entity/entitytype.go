package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
)

// 方位常量
const (
	LEFT  = 0 // 左侧
	RIGHT = 1 // 右侧
)

// Gear 档位
type Gear int32

const (
	GearNeutral Gear = iota // 空挡
	GearDrive               // 前进挡
	GearReverse             // 倒挡
	GearPark                // 驻车挡
)

func (g Gear) String() string {
	switch g {
	case GearNeutral:
		return "N"
	case GearDrive:
		return "D"
	case GearReverse:
		return "R"
	case GearPark:
		return "P"
	default:
		return fmt.Sprintf("Gear(%d)", int32(g))
	}
}

// SLPoint 参考线坐标系下的点
// s为沿参考线的纵向距离，l为横向偏移（左正右负）
type SLPoint struct {
	S float64
	L float64
}

// SLBoundary 参考线坐标系下的包围区间
type SLBoundary struct {
	StartS float64
	EndS   float64
	StartL float64
	EndL   float64
}

func (b SLBoundary) String() string {
	return fmt.Sprintf("SLBoundary{s=[%.2f,%.2f], l=[%.2f,%.2f]}", b.StartS, b.EndS, b.StartL, b.EndL)
}

// VehicleState 自车状态
type VehicleState struct {
	Position       geometry.Point // 车辆中心位置
	Heading        float64        // 车头朝向（弧度）
	LinearVelocity float64        // 纵向速度（米/秒），倒车时为负
	Gear           Gear           // 档位
}

// TrajectoryPoint 预测轨迹点
type TrajectoryPoint struct {
	Position     geometry.Point // 位置
	Theta        float64        // 朝向（弧度）
	V            float64        // 速度（米/秒）
	RelativeTime float64        // 相对当前时刻的时间（秒）
}

// entity/refline/refline.go的依赖倒置
type IReferenceLine interface {
	ID() string
	Length() float64
	// 将xy坐标转换为参考线sl坐标
	XYToSL(p geometry.Point) SLPoint
	// 将参考线sl坐标转换为xy坐标
	SLToXY(sl SLPoint) geometry.Point
	// 参考线在s处的切线方向（弧度）
	HeadingByS(s float64) float64
	// 相邻参考线ID（按距离从近到远排序）
	NeighborIDs(side int) []string
}

// entity/obstacle/pathobstacle.go的依赖倒置
// 描述一个障碍物在某条参考线上的决策视图
type IObstacle interface {
	ID() string
	IsVirtual() bool                     // 虚拟障碍物（如停止线）
	IsStatic() bool                      // 静止障碍物
	PerceptionPolygon() []geometry.Point // 感知多边形
	HasTrajectory() bool                 // 是否存在预测轨迹
	Trajectory() []TrajectoryPoint       // 预测轨迹
	Speed() float64                      // 速度（米/秒）

	IsLaneChangeBlocking() bool // 上一周期是否阻塞变道
	SetLaneChangeBlocking(blocking bool)
}

// entity/obstacle/pathdecision.go的依赖倒置
type IPathDecision interface {
	// 按输入顺序返回所有障碍物
	Obstacles() []IObstacle
	// 输入障碍物ID，查找障碍物，如果不存在则返回nil
	Find(id string) IObstacle
}

// entity/candidate/candidate.go的依赖倒置
// 一个规划周期内的候选行驶走廊
type IReferenceLineInfo interface {
	ID() string
	IsChangeLanePath() bool // 是否为变道参考线
	ReferenceLine() IReferenceLine
	AdcSlBoundary() SLBoundary // 自车在参考线上的占用区间
	VehicleState() VehicleState
	PathDecision() IPathDecision
}
