package input

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

const (
	defaultEgoLength      = 4.8 // 默认自车长度（米）
	defaultEgoWidth       = 2.0 // 默认自车宽度（米）
	defaultObstacleLength = 4.5 // 默认障碍物长度（米）
	defaultObstacleWidth  = 2.0 // 默认障碍物宽度（米）
)

// LaneSpec 场景内直接给出的车道中心线
// 功能：不依赖地图数据时，用于构造小规模场景的参考线
type LaneSpec struct {
	ID     string      `yaml:"id"`
	Points [][]float64 `yaml:"points"`          // 中心线折线点[x, y]
	Left   []string    `yaml:"left,omitempty"`  // 左侧车道ID（从近到远）
	Right  []string    `yaml:"right,omitempty"` // 右侧车道ID（从近到远）
}

// EgoSpec 自车初始状态
type EgoSpec struct {
	LaneID  string  `yaml:"lane_id"`           // 所在车道
	S       float64 `yaml:"s"`                 // 车辆中心在车道上的位置
	Speed   float64 `yaml:"speed"`             // 速度（米/秒）
	Length  float64 `yaml:"length,omitempty"`  // 车长（米）
	Width   float64 `yaml:"width,omitempty"`   // 车宽（米）
	Reverse bool    `yaml:"reverse,omitempty"` // 是否倒车
}

// DesireSpec 上游给出的变道意图
// 功能：在[Start, End)时间内希望自车行驶到目标车道
type DesireSpec struct {
	Start        float64 `yaml:"start"`
	End          float64 `yaml:"end"`
	TargetLaneID string  `yaml:"target_lane_id"`
}

// ObstacleSpec 障碍物初始状态
type ObstacleSpec struct {
	ID            string  `yaml:"id"`
	LaneID        string  `yaml:"lane_id"`                  // 所在车道
	S             float64 `yaml:"s"`                        // 障碍物中心在车道上的位置
	L             float64 `yaml:"l,omitempty"`              // 横向偏移（左正右负）
	Speed         float64 `yaml:"speed,omitempty"`          // 速度（米/秒）
	HeadingOffset float64 `yaml:"heading_offset,omitempty"` // 相对车道方向的朝向（弧度），π表示逆向行驶
	Length        float64 `yaml:"length,omitempty"`
	Width         float64 `yaml:"width,omitempty"`
	Virtual       bool    `yaml:"virtual,omitempty"`
	Static        bool    `yaml:"static,omitempty"`
	Predict       bool    `yaml:"predict,omitempty"` // 是否提供预测轨迹
}

// Scenario 规划场景
// 功能：描述一次规划会话的自车、障碍物与变道意图
type Scenario struct {
	Lanes     []LaneSpec     `yaml:"lanes,omitempty"`
	Ego       EgoSpec        `yaml:"ego"`
	Desires   []DesireSpec   `yaml:"desires,omitempty"`
	Obstacles []ObstacleSpec `yaml:"obstacles,omitempty"`
}

// ActiveDesire 获取t时刻生效的变道意图
// 返回：第一个生效的意图，不存在时ok为false
func (s *Scenario) ActiveDesire(t float64) (DesireSpec, bool) {
	return lo.Find(s.Desires, func(d DesireSpec) bool {
		return d.Start <= t && t < d.End
	})
}

// ParseScenario 解析YAML格式的场景数据
// 功能：严格解析场景，填充缺省尺寸并检查数据正确性
// 算法说明：
// 1. 自车必须指定所在车道
// 2. 障碍物ID不能为空且不能重复，必须指定所在车道
// 3. 场景内车道至少包含两个[x, y]点
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if s.Ego.LaneID == "" {
		return nil, fmt.Errorf("ego lane_id must be specified")
	}
	if s.Ego.Length <= 0 {
		s.Ego.Length = defaultEgoLength
	}
	if s.Ego.Width <= 0 {
		s.Ego.Width = defaultEgoWidth
	}
	for _, l := range s.Lanes {
		if len(l.Points) < 2 {
			return nil, fmt.Errorf("lane %s needs at least 2 points", l.ID)
		}
		for _, p := range l.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("lane %s has bad point %v, want [x, y]", l.ID, p)
			}
		}
	}
	ids := make(map[string]struct{})
	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		if o.ID == "" {
			return nil, fmt.Errorf("obstacle %d has empty id", i)
		}
		if _, ok := ids[o.ID]; ok {
			return nil, fmt.Errorf("obstacles have duplicated id %s", o.ID)
		}
		ids[o.ID] = struct{}{}
		if o.LaneID == "" {
			return nil, fmt.Errorf("obstacle %s lane_id must be specified", o.ID)
		}
		if o.Length <= 0 {
			o.Length = defaultObstacleLength
		}
		if o.Width <= 0 {
			o.Width = defaultObstacleWidth
		}
	}
	return &s, nil
}

// LoadScenario 从文件加载场景
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}
