// 随机数引擎，包装了golang.org/x/exp/rand，为感知噪声提供可复现的随机数
package randengine

import (
	"flag"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，只在规划主循环中使用
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子，实际种子为seed加上-rand.seed_offset
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// Gaussian 生成正态分布随机数
// 功能：返回N(mean, std^2)的一个采样，std<=0时直接返回mean
func (e *Engine) Gaussian(mean, std float64) float64 {
	if std <= 0 {
		return mean
	}
	return mean + std*e.NormFloat64()
}
