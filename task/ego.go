package task

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/input"
)

// lcRuntime 自车变道过程的运行时数据，仅当IsLC == true时有意义
type lcRuntime struct {
	IsLC           bool                  // 变道状态
	Target         entity.IReferenceLine // 变道目标车道
	CompletedRatio float64               // 已完成的变道比例
}

// ego 自车
// 功能：沿所在车道匀速行驶，变道时在当前车道与目标车道之间插值位置
// 说明：变道完成前自车所在车道不变，完成后切换到目标车道
type ego struct {
	lane    entity.IReferenceLine
	s       float64
	speed   float64
	length  float64
	width   float64
	reverse bool

	lc lcRuntime
}

func newEgo(spec input.EgoSpec, lane entity.IReferenceLine) *ego {
	return &ego{
		lane:    lane,
		s:       spec.S,
		speed:   spec.Speed,
		length:  spec.Length,
		width:   spec.Width,
		reverse: spec.Reverse,
	}
}

func (e *ego) String() string {
	return fmt.Sprintf("Ego{lane=%s, s=%.2f, lc=%v(%.2f)}", e.lane.ID(), e.s, e.lc.IsLC, e.lc.CompletedRatio)
}

// position 自车中心位置
func (e *ego) position() geometry.Point {
	xyz := e.lane.SLToXY(entity.SLPoint{S: e.s})
	if e.lc.IsLC {
		targetXYZ := e.lc.Target.SLToXY(entity.SLPoint{S: e.targetS()})
		xyz = geometry.Blend(xyz, targetXYZ, e.lc.CompletedRatio)
	}
	return xyz
}

// targetS 自车在变道目标车道上的投影位置
func (e *ego) targetS() float64 {
	return e.lc.Target.XYToSL(e.lane.SLToXY(entity.SLPoint{S: e.s})).S
}

// state 自车状态，朝向取所在车道切线方向
func (e *ego) state() entity.VehicleState {
	state := entity.VehicleState{
		Position:       e.position(),
		Heading:        e.lane.HeadingByS(e.s),
		LinearVelocity: e.speed,
		Gear:           entity.GearDrive,
	}
	if e.reverse {
		state.LinearVelocity = -e.speed
		state.Gear = entity.GearReverse
	}
	return state
}

// move 沿所在车道行驶dt秒，位置限制在车道范围内
func (e *ego) move(dt float64) {
	ds := e.speed * dt
	if e.reverse {
		ds = -ds
	}
	e.s = lo.Clamp(e.s+ds, 0, e.lane.Length())
}

// changeLane 向目标车道推进变道过程
// 参数：target-目标车道，ratio-本周期完成的变道比例
// 返回：本周期是否完成变道
func (e *ego) changeLane(target entity.IReferenceLine, ratio float64) bool {
	if !e.lc.IsLC || e.lc.Target.ID() != target.ID() {
		e.lc = lcRuntime{IsLC: true, Target: target}
	}
	e.lc.CompletedRatio += ratio
	if e.lc.CompletedRatio < 1 {
		return false
	}
	e.s = lo.Clamp(e.targetS(), 0, target.Length())
	e.lane = target
	e.lc = lcRuntime{}
	return true
}

// cancelLaneChange 撤销变道，回到所在车道
func (e *ego) cancelLaneChange() {
	e.lc = lcRuntime{}
}
