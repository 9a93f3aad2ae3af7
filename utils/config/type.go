package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，支持缓存机制
type InputPath struct {
	DB        string `yaml:"db"`                   // 数据库名
	Col       string `yaml:"col"`                  // 集合名
	Cache     string `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.pb
	OnlyCache bool   `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// GetCachePath 获取缓存文件路径
// 功能：返回缓存文件的完整路径
// 返回：缓存文件路径字符串
// 说明：未指定缓存路径时使用默认命名规则：{数据库名}.{集合名}.pb
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".pb"
}

// Input 指定规划器所有输入数据的配置项
// 功能：定义地图与场景两类输入
// 说明：地图提供参考线（车道中心线），场景提供自车、障碍物与变道意图
type Input struct {
	URI      string    `yaml:"uri"`      // MongoDB连接字符串
	Map      InputPath `yaml:"map"`      // 地图
	Scenario string    `yaml:"scenario"` // 场景文件路径（YAML）
}

// ControlStep 指定规划周期时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每个规划周期的时间间隔（秒）
}

// ChangeLane 变道仲裁配置
// 功能：定义变道状态机的冻结窗口与放行开关
// 说明：冻结时间未设置时取默认值，显式设置为0表示不冻结
type ChangeLane struct {
	Reckless          bool     `yaml:"reckless,omitempty"`            // 无条件优先变道参考线，跳过状态机与安全判断
	FailFreezeTime    *float64 `yaml:"fail_freeze_time,omitempty"`    // 变道失败后禁止再次变道的时间（秒）
	SuccessFreezeTime *float64 `yaml:"success_freeze_time,omitempty"` // 变道成功后禁止再次变道的时间（秒）
	Duration          float64  `yaml:"duration,omitempty"`            // 自车完成一次变道所需的时间（秒），<=0时取默认值
}

// ChangeLanePolicy 填充默认值后的变道仲裁参数
type ChangeLanePolicy struct {
	Reckless          bool
	FailFreezeTime    float64
	SuccessFreezeTime float64
	Duration          float64
}

// SafetyGate 变道安全判断的策略参数
// 功能：定义障碍物横向过滤阈值、安全时距、最小安全距离与滞回缓冲
// 说明：同向障碍物按相对速度与同向安全时距计算前后安全距离，
// 对向障碍物按速度之和与对向安全时距计算前方安全距离，后方使用固定值
type SafetyGate struct {
	// 横向无关阈值（米），障碍物横向区间完全超出该值时不参与变道参考线的判断
	LateralShift float64 `yaml:"lateral_shift"`
	// 同向、对向安全时距（秒）
	SafeTimeOnSameDirection     float64 `yaml:"safe_time_on_same_direction"`
	SafeTimeOnOppositeDirection float64 `yaml:"safe_time_on_opposite_direction"`
	// 最小安全距离（米）
	ForwardMinSafeDistanceOnSameDirection      float64 `yaml:"forward_min_safe_distance_on_same_direction"`
	BackwardMinSafeDistanceOnSameDirection     float64 `yaml:"backward_min_safe_distance_on_same_direction"`
	ForwardMinSafeDistanceOnOppositeDirection  float64 `yaml:"forward_min_safe_distance_on_opposite_direction"`
	BackwardMinSafeDistanceOnOppositeDirection float64 `yaml:"backward_min_safe_distance_on_opposite_direction"`
	// 滞回缓冲距离（米）
	DistanceBuffer float64 `yaml:"distance_buffer"`
}

// DefaultSafetyGate 默认的变道安全判断参数
func DefaultSafetyGate() SafetyGate {
	return SafetyGate{
		LateralShift:                               2.5,
		SafeTimeOnSameDirection:                    3.0,
		SafeTimeOnOppositeDirection:                5.0,
		ForwardMinSafeDistanceOnSameDirection:      6.0,
		BackwardMinSafeDistanceOnSameDirection:     8.0,
		ForwardMinSafeDistanceOnOppositeDirection:  50.0,
		BackwardMinSafeDistanceOnOppositeDirection: 1.0,
		DistanceBuffer:                             0.5,
	}
}

// UnmarshalYAML 以DefaultSafetyGate为初值解析，配置中未出现的字段保留默认值
func (sg *SafetyGate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain SafetyGate
	p := plain(DefaultSafetyGate())
	if err := unmarshal(&p); err != nil {
		return err
	}
	*sg = SafetyGate(p)
	return nil
}

// Control 规划器控制配置
type Control struct {
	Step       ControlStep `yaml:"step"`
	ChangeLane ChangeLane  `yaml:"change_lane"`
	SafetyGate *SafetyGate `yaml:"safety_gate,omitempty"` // 为空则使用默认值
	NoiseStd   float64     `yaml:"noise_std,omitempty"`   // 障碍物感知多边形的位置噪声标准差（米）
	Seed       uint64      `yaml:"seed,omitempty"`        // 随机数种子
}

// Output 输出配置
type Output struct {
	SQLite string `yaml:"sqlite,omitempty"` // 每周期变道决策记录的SQLite文件路径，为空则不记录
}

// Config YAML配置文件的根结构
// 功能：定义整个规划器的配置结构
// 说明：包含输入、控制、输出等所有配置项
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 规划过程控制
	Output  Output  `yaml:"output,omitempty"` // 输出
}
