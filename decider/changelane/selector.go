package changelane

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
)

// PrioritizeChangeLane 将第一条变道参考线移动到候选列表最前
// 说明：其余候选的相对顺序不变；列表为空或不存在变道参考线时不做任何修改
func PrioritizeChangeLane(infos *[]entity.IReferenceLineInfo) {
	if len(*infos) == 0 {
		log.Error("reference line info empty")
		return
	}
	_, i, ok := lo.FindIndexOf(*infos, func(info entity.IReferenceLineInfo) bool {
		return info.IsChangeLanePath()
	})
	if !ok || i == 0 {
		return
	}
	lc := (*infos)[i]
	copy((*infos)[1:i+1], (*infos)[:i])
	(*infos)[0] = lc
}

// RemoveChangeLane 删除所有变道参考线，其余候选的相对顺序不变
func RemoveChangeLane(infos *[]entity.IReferenceLineInfo) {
	*infos = lo.Reject(*infos, func(info entity.IReferenceLineInfo, _ int) bool {
		return info.IsChangeLanePath()
	})
}

// GetCurrentPathID 获取自车当前所在车道的参考线ID
// 返回：第一条非变道参考线的ID，不存在时返回空字符串
func GetCurrentPathID(infos []entity.IReferenceLineInfo) string {
	if info, ok := lo.Find(infos, func(info entity.IReferenceLineInfo) bool {
		return !info.IsChangeLanePath()
	}); ok {
		return info.ID()
	}
	return ""
}
