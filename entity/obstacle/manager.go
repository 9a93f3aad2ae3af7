package obstacle

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/randengine"
)

// Manager 障碍物管理器
// 功能：管理所有障碍物的运动与感知结果，并在周期之间保存每条参考线上的变道阻塞标志
// 说明：阻塞标志在本周期由安全判断写入，下一周期作为滞回判断的初值读出
type Manager struct {
	ctx       entity.ITaskContext
	generator *randengine.Engine

	obstacles []*Obstacle
	blocking  map[string]map[string]bool // 参考线ID -> 障碍物ID -> 变道阻塞标志
}

// NewManager 创建障碍物管理器实例
// 说明：感知噪声标准差取自运行时配置
func NewManager(ctx entity.ITaskContext, generator *randengine.Engine) *Manager {
	return &Manager{
		ctx:       ctx,
		generator: generator,
		obstacles: make([]*Obstacle, 0),
		blocking:  make(map[string]map[string]bool),
	}
}

// Init 根据场景初始化所有障碍物并生成首个周期的感知结果
// 说明：障碍物所在车道不存在时panic
func (m *Manager) Init(specs []input.ObstacleSpec) {
	m.obstacles = lo.Map(specs, func(spec input.ObstacleSpec, _ int) *Obstacle {
		lane, err := m.ctx.ReferenceLineManager().GetOrError(spec.LaneID)
		if err != nil {
			log.Panicf("obstacle %s: %v", spec.ID, err)
		}
		return newObstacle(spec, lane)
	})
	m.Prepare(0)
	log.Infof("init %d obstacles", len(m.obstacles))
}

// Prepare 准备阶段：推进障碍物并更新感知结果
func (m *Manager) Prepare(dt float64) {
	noiseStd := m.ctx.RuntimeConfig().C.NoiseStd
	for _, o := range m.obstacles {
		o.prepare(dt, m.generator, noiseStd)
	}
}

// NewPathDecision 为指定参考线生成本周期的障碍物决策集合
// 说明：障碍物顺序与场景输入顺序一致，变道阻塞标志取自该参考线上一周期的结果
func (m *Manager) NewPathDecision(pathID string) entity.IPathDecision {
	prev := m.blocking[pathID]
	return NewPathDecision(lo.Map(m.obstacles, func(o *Obstacle, _ int) *PathObstacle {
		return NewPathObstacle(o.snapshot, prev[o.id])
	})...)
}

// Commit 保存本周期的变道阻塞标志
func (m *Manager) Commit(pathID string, pd entity.IPathDecision) {
	m.blocking[pathID] = lo.SliceToMap(pd.Obstacles(), func(o entity.IObstacle) (string, bool) {
		return o.ID(), o.IsLaneChangeBlocking()
	})
}
