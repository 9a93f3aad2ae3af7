package obstacle

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
)

// Snapshot 障碍物在一个规划周期内的感知与预测结果
type Snapshot struct {
	ID         string
	Virtual    bool
	Static     bool
	Polygon    []geometry.Point         // 感知多边形
	Trajectory []entity.TrajectoryPoint // 预测轨迹，为空表示无预测
	Speed      float64                  // 速度（米/秒）
}

// PathObstacle 障碍物在某条参考线上的决策视图
// 功能：在本周期感知结果之上携带变道阻塞标志
type PathObstacle struct {
	snapshot           Snapshot
	laneChangeBlocking bool
}

// NewPathObstacle 创建参考线障碍物，blocking为上一周期的变道阻塞标志
func NewPathObstacle(snapshot Snapshot, blocking bool) *PathObstacle {
	return &PathObstacle{
		snapshot:           snapshot,
		laneChangeBlocking: blocking,
	}
}

func (o *PathObstacle) ID() string {
	return o.snapshot.ID
}

func (o *PathObstacle) IsVirtual() bool {
	return o.snapshot.Virtual
}

func (o *PathObstacle) IsStatic() bool {
	return o.snapshot.Static
}

func (o *PathObstacle) PerceptionPolygon() []geometry.Point {
	return o.snapshot.Polygon
}

func (o *PathObstacle) HasTrajectory() bool {
	return len(o.snapshot.Trajectory) > 0
}

func (o *PathObstacle) Trajectory() []entity.TrajectoryPoint {
	return o.snapshot.Trajectory
}

func (o *PathObstacle) Speed() float64 {
	return o.snapshot.Speed
}

func (o *PathObstacle) IsLaneChangeBlocking() bool {
	return o.laneChangeBlocking
}

func (o *PathObstacle) SetLaneChangeBlocking(blocking bool) {
	o.laneChangeBlocking = blocking
}

// PathDecision 一条参考线上的障碍物决策集合
// 功能：按输入顺序保存障碍物，支持按ID查找
type PathDecision struct {
	obstacles []entity.IObstacle
	index     map[string]*PathObstacle
}

// NewPathDecision 创建障碍物决策集合，保持输入顺序，ID重复则panic
func NewPathDecision(obstacles ...*PathObstacle) *PathDecision {
	pd := &PathDecision{
		obstacles: make([]entity.IObstacle, 0, len(obstacles)),
		index:     make(map[string]*PathObstacle, len(obstacles)),
	}
	for _, o := range obstacles {
		if _, ok := pd.index[o.ID()]; ok {
			log.Panicf("duplicated obstacle id %s in path decision", o.ID())
		}
		pd.obstacles = append(pd.obstacles, o)
		pd.index[o.ID()] = o
	}
	return pd
}

func (pd *PathDecision) Obstacles() []entity.IObstacle {
	return pd.obstacles
}

func (pd *PathDecision) Find(id string) entity.IObstacle {
	if o, ok := pd.index[id]; ok {
		return o
	}
	return nil
}
