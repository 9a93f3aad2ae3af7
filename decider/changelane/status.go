package changelane

import "fmt"

// Status 变道状态
type Status int32

const (
	StatusUnset             Status = iota // 未设置，会话开始时的初始状态
	StatusInChangeLane                    // 正在变道
	StatusChangeLaneSuccess               // 变道成功（或正常车道行驶）
	StatusChangeLaneFailed                // 变道失败
)

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "UNSET"
	case StatusInChangeLane:
		return "IN_CHANGE_LANE"
	case StatusChangeLaneSuccess:
		return "CHANGE_LANE_SUCCESS"
	case StatusChangeLaneFailed:
		return "CHANGE_LANE_FAILED"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// State 跨周期的变道决策状态
// 功能：记录当前变道状态、提交该状态时所在的参考线ID与时间戳
// 说明：每个规划会话只有一个State，由会话上下文持有，每个周期由仲裁器读取一次并按需覆写一次
type State struct {
	Status    Status  // 变道状态
	PathID    string  // 提交状态时的当前车道参考线ID
	Timestamp float64 // 提交状态的时间（秒）

	set bool // 是否已经写入过
}

// NewState 创建空的变道状态
func NewState() *State {
	return &State{}
}

// HasStatus 状态是否已经写入过
func (s *State) HasStatus() bool {
	return s.set
}

func (s *State) String() string {
	return fmt.Sprintf("ChangeLaneStatus{status=%v, path_id=%q, timestamp=%.3f}", s.Status, s.PathID, s.Timestamp)
}
