package candidate

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity/obstacle"
)

// ReferenceLineInfo 候选行驶走廊
// 功能：描述一个规划周期内沿某条参考线行驶的候选方案
// 说明：生命周期为一个规划周期，由本周期的候选列表持有
type ReferenceLineInfo struct {
	referenceLine entity.IReferenceLine
	isChangeLane  bool
	vehicleState  entity.VehicleState
	adcSlBoundary entity.SLBoundary
	pathDecision  entity.IPathDecision
	drivable      bool
}

// New 创建候选走廊
// 功能：将自车包围盒投影到参考线上，得到自车占用区间
// 参数：referenceLine-参考线，isChangeLane-是否为变道参考线，vehicleState-自车状态，
// egoLength/egoWidth-自车尺寸，pathDecision-本周期障碍物决策集合
func New(
	referenceLine entity.IReferenceLine,
	isChangeLane bool,
	vehicleState entity.VehicleState,
	egoLength, egoWidth float64,
	pathDecision entity.IPathDecision,
) *ReferenceLineInfo {
	info := &ReferenceLineInfo{
		referenceLine: referenceLine,
		isChangeLane:  isChangeLane,
		vehicleState:  vehicleState,
		pathDecision:  pathDecision,
		drivable:      true,
	}
	b := entity.SLBoundary{
		StartS: mathutil.INF, EndS: -mathutil.INF,
		StartL: mathutil.INF, EndL: -mathutil.INF,
	}
	for _, p := range obstacle.BoxCorners(vehicleState.Position, vehicleState.Heading, egoLength, egoWidth) {
		sl := referenceLine.XYToSL(p)
		b.StartS = math.Min(b.StartS, sl.S)
		b.EndS = math.Max(b.EndS, sl.S)
		b.StartL = math.Min(b.StartL, sl.L)
		b.EndL = math.Max(b.EndL, sl.L)
	}
	info.adcSlBoundary = b
	return info
}

func (r *ReferenceLineInfo) String() string {
	return fmt.Sprintf("ReferenceLineInfo{id=%s, change_lane=%v, adc=%v}", r.ID(), r.isChangeLane, r.adcSlBoundary)
}

func (r *ReferenceLineInfo) ID() string {
	return r.referenceLine.ID()
}

func (r *ReferenceLineInfo) IsChangeLanePath() bool {
	return r.isChangeLane
}

func (r *ReferenceLineInfo) ReferenceLine() entity.IReferenceLine {
	return r.referenceLine
}

func (r *ReferenceLineInfo) AdcSlBoundary() entity.SLBoundary {
	return r.adcSlBoundary
}

func (r *ReferenceLineInfo) VehicleState() entity.VehicleState {
	return r.vehicleState
}

func (r *ReferenceLineInfo) PathDecision() entity.IPathDecision {
	return r.pathDecision
}

// IsDrivable 是否可以作为本周期的行驶方案
func (r *ReferenceLineInfo) IsDrivable() bool {
	return r.drivable
}

func (r *ReferenceLineInfo) SetDrivable(drivable bool) {
	r.drivable = drivable
}
