package task

import (
	"flag"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/decider/changelane"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity/candidate"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/output"
)

const (
	SelfName = "lanechange" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每个规划周期执行一次
// 功能：在每个规划周期开始时推进时间与环境
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间，本周期内统一使用该时间
// 2. 心跳日志：定期输出规划状态
// 3. 障碍物运动并生成本周期的感知与预测结果
// 4. 自车沿所在车道行驶
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) %v %v",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.ego, ctx.state,
		)
	}

	ctx.obstacleManager.Prepare(ctx.clock.DT)
	ctx.ego.move(ctx.clock.DT)
}

// update 更新阶段，每个规划周期执行一次
// 功能：完成一次变道仲裁并执行选中的候选走廊
// 算法说明：
// 1. 构建候选走廊：当前车道，以及存在变道意图时朝目标方向的相邻车道
// 2. 变道仲裁：根据变道状态筛选与排序候选走廊
// 3. 安全判断：对剩余的变道参考线逐条判断，不安全则标记为不可行驶，保存阻塞标志
// 4. 选择第一个可行驶的候选走廊；正在变道而变道参考线被阻塞时提交变道失败
// 5. 推进或撤销自车的变道过程
// 6. 记录本周期的决策
//
// 说明：仲裁失败时本周期只保留非变道参考线，变道状态不变
func (ctx *Context) update() {
	candidates := ctx.buildCandidates()
	infos := lo.Map(candidates, func(c *candidate.ReferenceLineInfo, _ int) entity.IReferenceLineInfo { return c })

	applied := ctx.decider.Apply(&infos)
	if applied {
		candidates = lo.Map(infos, func(info entity.IReferenceLineInfo, _ int) *candidate.ReferenceLineInfo {
			return info.(*candidate.ReferenceLineInfo)
		})
	} else {
		candidates = lo.Reject(candidates, func(c *candidate.ReferenceLineInfo, _ int) bool {
			return c.IsChangeLanePath()
		})
	}

	isClear := true
	if applied {
		for _, c := range candidates {
			if !c.IsChangeLanePath() {
				continue
			}
			if !ctx.decider.IsClearToChangeLane(c) {
				c.SetDrivable(false)
				isClear = false
			}
			ctx.obstacleManager.Commit(c.ID(), c.PathDecision())
		}
	}

	chosen, ok := lo.Find(candidates, func(c *candidate.ReferenceLineInfo) bool {
		return c.IsDrivable()
	})
	if !isClear && ctx.state.Status == changelane.StatusInChangeLane {
		ctx.decider.UpdateStatus(changelane.StatusChangeLaneFailed, ctx.ego.lane.ID())
		log.Debugf("lane change from %s failed at %v", ctx.ego.lane.ID(), ctx.clock)
	}

	if ok && chosen.IsChangeLanePath() {
		if ctx.ego.changeLane(chosen.ReferenceLine(), ctx.clock.DT/ctx.runtimeConfig.LC.Duration) {
			log.Infof("ego changed lane to %s at %v", chosen.ID(), ctx.clock)
		}
	} else if ctx.ego.lc.IsLC {
		log.Debugf("lane change to %s canceled at %v", ctx.ego.lc.Target.ID(), ctx.clock)
		ctx.ego.cancelLaneChange()
	}

	ctx.record(candidates, chosen, isClear, applied)
}

// buildCandidates 构建本周期的候选走廊
// 说明：当前车道在前；变道意图生效且目标车道位于某一侧时，追加该侧最近的相邻车道作为变道参考线
func (ctx *Context) buildCandidates() []*candidate.ReferenceLineInfo {
	state := ctx.ego.state()
	res := []*candidate.ReferenceLineInfo{ctx.newCandidate(ctx.ego.lane, false, state)}

	desire, ok := ctx.initRes.Scenario.ActiveDesire(ctx.clock.T)
	if !ok || desire.TargetLaneID == ctx.ego.lane.ID() {
		return res
	}
	for _, side := range []int{entity.LEFT, entity.RIGHT} {
		ids := ctx.ego.lane.NeighborIDs(side)
		if !lo.Contains(ids, desire.TargetLaneID) {
			continue
		}
		neighbor, err := ctx.referenceLineManager.GetOrError(ids[0])
		if err != nil {
			log.Warnf("skip lane change candidate: %v", err)
			return res
		}
		return append(res, ctx.newCandidate(neighbor, true, state))
	}
	log.Warnf("lane change target %s is not a neighbor of lane %s", desire.TargetLaneID, ctx.ego.lane.ID())
	return res
}

func (ctx *Context) newCandidate(line entity.IReferenceLine, isChangeLane bool, state entity.VehicleState) *candidate.ReferenceLineInfo {
	return candidate.New(
		line, isChangeLane, state,
		ctx.ego.length, ctx.ego.width,
		ctx.obstacleManager.NewPathDecision(line.ID()),
	)
}

// record 记录本周期的决策
func (ctx *Context) record(candidates []*candidate.ReferenceLineInfo, chosen *candidate.ReferenceLineInfo, isClear, applied bool) {
	if ctx.recorder == nil {
		return
	}
	ids := lo.Map(candidates, func(c *candidate.ReferenceLineInfo, _ int) string {
		return c.ID()
	})
	row := output.Row{
		Session:    ctx.session,
		Step:       ctx.clock.InternalStep,
		T:          ctx.clock.T,
		Status:     ctx.state.Status.String(),
		PathID:     ctx.state.PathID,
		Candidates: ids,
		Clear:      isClear,
		Applied:    applied,
	}
	if chosen != nil {
		row.Chosen = chosen.ID()
	}
	if err := ctx.recorder.Record(row); err != nil {
		log.Errorf("step %d: %v", ctx.clock.InternalStep, err)
	}
}

// Run 运行
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	// init syncer
	ctx.sidecar.Step(false)
	for {
		ctx.prepare()
		// 通知准备阶段完成
		log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.InternalStep)
		ctx.sidecar.NotifyStepReady()
		log.Debugf("step %d: NotifyStepReady complete", ctx.clock.InternalStep)
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		close := ctx.sidecar.Step(ctx.clock.Finished())
		if close || ctx.closed.Load() {
			break
		}
	}
	log.Infof("planning complete")
	ctx.Close()
}
