package changelane

import (
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/clock"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
)

// Decider 变道仲裁器
// 功能：每个规划周期根据跨周期的变道状态筛选与排序候选走廊，并判断变道参考线是否安全
// 说明：状态由会话上下文持有并注入，仲裁器本身不保存跨周期数据
type Decider struct {
	clock *clock.Clock
	lc    config.ChangeLanePolicy
	sg    config.SafetyGate
	state *State
}

// NewDecider 创建变道仲裁器
// 参数：clock-规划时钟，lc-变道仲裁配置，sg-变道安全判断配置，state-会话持有的变道状态
func NewDecider(clock *clock.Clock, lc config.ChangeLanePolicy, sg config.SafetyGate, state *State) *Decider {
	return &Decider{
		clock: clock,
		lc:    lc,
		sg:    sg,
		state: state,
	}
}

// State 获取变道状态
func (d *Decider) State() *State {
	return d.state
}

// UpdateStatus 以当前规划时间提交变道状态
func (d *Decider) UpdateStatus(status Status, pathID string) {
	d.UpdateStatusAt(d.clock.T, status, pathID)
}

// UpdateStatusAt 提交变道状态，同时覆写状态、参考线ID与时间戳
// 说明：不检查状态转移是否合法，由调用方保证
func (d *Decider) UpdateStatusAt(timestamp float64, status Status, pathID string) {
	d.state.Timestamp = timestamp
	d.state.PathID = pathID
	d.state.Status = status
	d.state.set = true
}

// Apply 变道仲裁主函数
// 功能：根据上一次提交的变道状态，决定本周期保留、优先或删除变道参考线，并更新变道状态
// 参数：infos-本周期的候选走廊列表，原地修改
// 返回：false表示本周期无法仲裁（候选为空、状态未知或找不到当前车道），调用方应跳过变道仲裁
// 算法说明：
// 1. 放行开关打开时直接优先变道参考线
// 2. 首个周期：以当前车道提交成功状态
// 3. 只有一条候选：正在变道则视为变道完成，其余状态保持不变
// 4. 存在变道候选：
//   - 正在变道：目标未变则优先变道参考线，否则放弃变道
//   - 变道失败：冻结时间内删除变道参考线，超时后重新进入变道状态（本周期不优先）
//   - 变道成功：冻结时间内删除变道参考线，超时后优先变道参考线并进入变道状态
func (d *Decider) Apply(infos *[]entity.IReferenceLineInfo) bool {
	if len(*infos) == 0 {
		log.Error("reference lines empty")
		return false
	}

	if d.lc.Reckless {
		PrioritizeChangeLane(infos)
		return true
	}

	prev := d.state
	now := d.clock.T

	if !prev.HasStatus() {
		d.UpdateStatusAt(now, StatusChangeLaneSuccess, GetCurrentPathID(*infos))
		return true
	}

	hasChangeLane := len(*infos) > 1
	if !hasChangeLane {
		pathID := (*infos)[0].ID()
		switch prev.Status {
		case StatusChangeLaneSuccess, StatusChangeLaneFailed:
		case StatusInChangeLane:
			d.UpdateStatusAt(now, StatusChangeLaneSuccess, pathID)
		default:
			log.Errorf("unknown state: %v", prev)
			return false
		}
		return true
	}

	currentPathID := GetCurrentPathID(*infos)
	if currentPathID == "" {
		log.Error("the vehicle is not on any reference line")
		return false
	}
	switch prev.Status {
	case StatusInChangeLane:
		if prev.PathID == currentPathID {
			PrioritizeChangeLane(infos)
		} else {
			RemoveChangeLane(infos)
			d.UpdateStatusAt(now, StatusChangeLaneSuccess, currentPathID)
		}
	case StatusChangeLaneFailed:
		if now-prev.Timestamp < d.lc.FailFreezeTime {
			RemoveChangeLane(infos)
		} else {
			// 重新进入变道状态，下一周期再优先变道参考线
			d.UpdateStatusAt(now, StatusInChangeLane, currentPathID)
		}
	case StatusChangeLaneSuccess:
		if now-prev.Timestamp < d.lc.SuccessFreezeTime {
			RemoveChangeLane(infos)
		} else {
			PrioritizeChangeLane(infos)
			d.UpdateStatusAt(now, StatusInChangeLane, currentPathID)
		}
	default:
		log.Errorf("unknown state: %v", prev)
		return false
	}
	return true
}
