package changelane

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
)

// IsClearToChangeLane 判断沿该候选走廊变道是否安全
// 功能：逐个检查障碍物与自车的纵向间距是否满足前后安全距离
// 参数：info-候选走廊（通常为变道参考线）
// 返回：true表示可以变道，false表示被某个障碍物阻塞
// 算法说明：
// 1. 跳过虚拟障碍物与静止障碍物
// 2. 将感知多边形投影到参考线坐标系，得到sl包围区间
// 3. 变道参考线上横向区间完全超出阈值的障碍物不参与判断
// 4. 根据预测轨迹首点朝向判断是否与自车同向
// 5. 按方向计算前后安全距离，对前后间距分别做滞回判断，均过近则阻塞
// 6. 写回障碍物的变道阻塞标志，遇到第一个阻塞障碍物立即返回
func (d *Decider) IsClearToChangeLane(info entity.IReferenceLineInfo) bool {
	adc := info.AdcSlBoundary()
	egoStartS, egoEndS := adc.StartS, adc.EndS
	vehicleState := info.VehicleState()
	egoV := math.Abs(vehicleState.LinearVelocity)
	pathDecision := info.PathDecision()

	for _, obstacle := range pathDecision.Obstacles() {
		if obstacle.IsVirtual() || obstacle.IsStatic() {
			log.Debugf("skip one virtual or static obstacle %s", obstacle.ID())
			continue
		}

		b := projectPolygon(info.ReferenceLine(), obstacle.PerceptionPolygon())

		if info.IsChangeLanePath() {
			if b.EndL < -d.sg.LateralShift || b.StartL > d.sg.LateralShift {
				continue
			}
		}

		forwardSafeDistance, backwardSafeDistance := d.safeDistances(
			isSameDirection(obstacle, vehicleState), egoV, obstacle.Speed(),
		)

		wasBlocking := obstacle.IsLaneChangeBlocking()
		if HysteresisFilter(egoStartS-b.EndS, backwardSafeDistance, d.sg.DistanceBuffer, wasBlocking) &&
			HysteresisFilter(b.StartS-egoEndS, forwardSafeDistance, d.sg.DistanceBuffer, wasBlocking) {
			pathDecision.Find(obstacle.ID()).SetLaneChangeBlocking(true)
			log.Debugf("lane change on %s is blocked by obstacle %s", info.ID(), obstacle.ID())
			return false
		} else {
			pathDecision.Find(obstacle.ID()).SetLaneChangeBlocking(false)
		}
	}
	return true
}

// safeDistances 计算前后安全距离
// 返回：forward-障碍物在前方时要求的最小间距，backward-障碍物在后方时要求的最小间距
func (d *Decider) safeDistances(sameDirection bool, egoV, obstacleV float64) (forward, backward float64) {
	if sameDirection {
		forward = math.Max(
			d.sg.ForwardMinSafeDistanceOnSameDirection,
			(egoV-obstacleV)*d.sg.SafeTimeOnSameDirection,
		)
		backward = math.Max(
			d.sg.BackwardMinSafeDistanceOnSameDirection,
			(obstacleV-egoV)*d.sg.SafeTimeOnSameDirection,
		)
	} else {
		forward = math.Max(
			d.sg.ForwardMinSafeDistanceOnOppositeDirection,
			(egoV+obstacleV)*d.sg.SafeTimeOnOppositeDirection,
		)
		backward = d.sg.BackwardMinSafeDistanceOnOppositeDirection
	}
	return
}

// isSameDirection 根据预测轨迹粗略判断障碍物是否与自车同向
// 说明：没有预测轨迹时视为同向；倒车时自车运动方向为车头反方向
func isSameDirection(obstacle entity.IObstacle, vehicleState entity.VehicleState) bool {
	if !obstacle.HasTrajectory() {
		return true
	}
	obstacleMovingDirection := obstacle.Trajectory()[0].Theta
	vehicleMovingDirection := vehicleState.Heading
	if vehicleState.Gear == entity.GearReverse {
		vehicleMovingDirection = NormalizeAngle(vehicleMovingDirection + math.Pi)
	}
	headingDifference := math.Abs(NormalizeAngle(obstacleMovingDirection - vehicleMovingDirection))
	return headingDifference < math.Pi/2
}

// projectPolygon 计算多边形在参考线坐标系下的包围区间
func projectPolygon(referenceLine entity.IReferenceLine, polygon []geometry.Point) entity.SLBoundary {
	b := entity.SLBoundary{
		StartS: mathutil.INF, EndS: -mathutil.INF,
		StartL: mathutil.INF, EndL: -mathutil.INF,
	}
	for _, p := range polygon {
		sl := referenceLine.XYToSL(p)
		b.StartS = math.Min(b.StartS, sl.S)
		b.EndS = math.Max(b.EndS, sl.S)
		b.StartL = math.Min(b.StartL, sl.L)
		b.EndL = math.Max(b.EndL, sl.L)
	}
	return b
}
