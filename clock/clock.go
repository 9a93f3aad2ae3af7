package clock

import (
	"fmt"

	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
)

// Clock 规划时钟
// 功能：管理规划周期的时间推进，每个周期开始时读取一次作为该周期的统一时间
// 说明：时间为单调递增的会话内秒数，提供时间格式化和RPC服务
type Clock struct {
	clockv1connect.UnimplementedClockServiceHandler

	DT         float64 // 每个规划周期的时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，规划区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 功能：根据控制步配置初始化时钟
// 参数：stepConfig-控制步配置，包含起始步、总步数与时间间隔
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 推进一个规划周期
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Finished 判断是否已经到达结束步
func (c *Clock) Finished() bool {
	return c.InternalStep+1 >= c.END_STEP
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串（HH:MM:SS.ss）
func (c *Clock) String() string {
	hour, minute, second := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%05.2f", hour, minute, second)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 功能：将当前时间分解为小时、分钟、秒三个部分
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
