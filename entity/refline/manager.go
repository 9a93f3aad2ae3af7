package refline

import (
	"fmt"
	"strconv"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/parallel"
	geov2 "git.fiblab.net/sim/protos/v2/go/city/geo/v2"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
)

// Manager 参考线管理器
// 功能：将地图中的机动车道转换为参考线，提供按ID查找
type Manager struct {
	data map[string]*ReferenceLine
}

// NewManager 创建参考线管理器实例
func NewManager() *Manager {
	return &Manager{
		data: make(map[string]*ReferenceLine),
	}
}

// LaneID 地图车道ID到参考线ID的转换
func LaneID(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}

// Init 初始化所有参考线
// 功能：根据地图车道数据创建参考线，只保留机动车道
// 参数：pbs-Lane的protobuf数据列表
func (m *Manager) Init(pbs []*mapv2.Lane) {
	driving := lo.Filter(pbs, func(pb *mapv2.Lane, _ int) bool {
		return pb.Type == mapv2.LaneType_LANE_TYPE_DRIVING
	})
	lines := parallel.GoMap(driving, func(pb *mapv2.Lane) *ReferenceLine {
		line := lo.Map(pb.CenterLine.Nodes, func(node *geov2.XYPosition, _ int) geometry.Point {
			return geometry.NewPointFromPb(node)
		})
		return New(
			LaneID(pb.Id), line,
			lo.Map(pb.LeftLaneIds, func(id int32, _ int) string { return LaneID(id) }),
			lo.Map(pb.RightLaneIds, func(id int32, _ int) string { return LaneID(id) }),
		)
	})
	m.Add(lines...)
	log.Infof("init %d reference lines from %d lanes", len(lines), len(pbs))
}

// Add 添加参考线
func (m *Manager) Add(lines ...*ReferenceLine) {
	for _, l := range lines {
		if _, ok := m.data[l.id]; ok {
			log.Panicf("duplicated reference line id %s", l.id)
		}
		m.data[l.id] = l
	}
}

// Get 根据ID获取参考线，如果不存在则panic
func (m *Manager) Get(id string) entity.IReferenceLine {
	if l, ok := m.data[id]; !ok {
		log.Panicf("no id %s in reference line data", id)
		return nil
	} else {
		return l
	}
}

// GetOrError 根据ID获取参考线，如果不存在则返回错误
func (m *Manager) GetOrError(id string) (entity.IReferenceLine, error) {
	if l, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in reference line data", id)
	} else {
		return l, nil
	}
}
