package config

import "github.com/samber/lo"

const (
	defaultFailFreezeTime    = 3.0 // 默认变道失败冻结时间（秒）
	defaultSuccessFreezeTime = 3.0 // 默认变道成功冻结时间（秒）
	defaultLCDuration        = 4.0 // 默认变道完成时间（秒）
)

// RuntimeConfig 运行时配置
// 功能：存储规划运行时的配置信息，所有缺省项均已填充默认值
type RuntimeConfig struct {
	All Config           // 全部配置
	C   Control          // 全局控制配置
	LC  ChangeLanePolicy // 变道仲裁配置
	SG  SafetyGate       // 变道安全判断配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，填充缺省值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 冻结时间未设置时使用默认值，显式设置的0保留
// 2. 变道时长<=0时使用默认值
// 3. 未配置safety_gate时使用DefaultSafetyGate，部分配置时其余字段已在解析时取默认值
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	lc := config.Control.ChangeLane
	rc.LC = ChangeLanePolicy{
		Reckless:          lc.Reckless,
		FailFreezeTime:    lo.FromPtrOr(lc.FailFreezeTime, defaultFailFreezeTime),
		SuccessFreezeTime: lo.FromPtrOr(lc.SuccessFreezeTime, defaultSuccessFreezeTime),
		Duration:          lc.Duration,
	}
	if rc.LC.Duration <= 0 {
		rc.LC.Duration = defaultLCDuration
	}
	if config.Control.SafetyGate != nil {
		rc.SG = *config.Control.SafetyGate
	} else {
		rc.SG = DefaultSafetyGate()
	}

	return rc
}
