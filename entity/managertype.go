package entity

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// Manager依赖倒置

// entity/refline/manager.go的依赖倒置
type IReferenceLineManager interface {
	Init(pbs []*mapv2.Lane) // 初始化

	// 输入参考线ID，查找参考线，如果不存在则panic
	Get(id string) IReferenceLine
	// 输入参考线ID，查找参考线，如果不存在则返回error
	GetOrError(id string) (IReferenceLine, error)
}
