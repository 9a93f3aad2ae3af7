package task

import (
	"sync/atomic"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/clock"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/decider/changelane"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity/obstacle"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity/refline"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/output"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/randengine"
)

// Context 规划会话上下文
// 功能：包含一次规划会话的所有变量和状态，替代全局变量
// 说明：变道状态在会话内跨周期保存，由本上下文唯一持有
type Context struct {

	// 任务名
	job string
	// 会话ID，用于日志与决策记录
	session string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理分布式模式下与syncer的交互
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}

	// 参考线管理器
	referenceLineManager *refline.Manager
	// 障碍物管理器
	obstacleManager *obstacle.Manager

	// 运行时配置
	runtimeConfig *config.RuntimeConfig

	// 跨周期的变道状态
	state *changelane.State
	// 变道仲裁器
	decider *changelane.Decider
	// 自车
	ego *ego

	// 决策记录器，为空则不记录
	recorder *output.Recorder

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的规划会话上下文
// 功能：加载输入数据，初始化各组件并注册RPC服务
// 参数：
//   - job: 任务名称
//   - cacheDir: 缓存目录
//   - c: 配置对象
//   - sidecar: sidecar实例
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 下载地图与场景数据
// 2. 创建时钟、管理器与变道仲裁器
// 3. 按配置打开决策记录数据库
// 4. 注册RPC服务到sidecar，启动sidecar服务（如果需要）
func NewContext(
	job string,
	cacheDir string,
	c config.Config,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) *Context {
	// 下载所有规划会话启动所需的数据
	ctx := newContext(job, c, input.Init(c, cacheDir))
	ctx.sidecar = sidecar

	if c.Output.SQLite != "" {
		recorder, err := output.NewRecorder(c.Output.SQLite)
		if err != nil {
			log.Panicf("failed to open recorder: %v", err)
		}
		ctx.recorder = recorder
	}

	ctx.clock.Register(ctx.sidecar)

	// sidecar协程，用于提供gRPC服务
	if startSidecarServe {
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			ctx.sidecarCloseCh <- struct{}{}
		}()
	}

	return ctx
}

// newContext 根据已加载的输入创建上下文，不涉及sidecar与记录器
func newContext(job string, c config.Config, initRes *input.Input) *Context {
	ctx := &Context{
		job:            job,
		session:        uuid.NewString(),
		sidecarCloseCh: make(chan struct{}, 1),
		initRes:        initRes,
	}
	ctx.clock = clock.New(c.Control.Step)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	ctx.referenceLineManager = refline.NewManager()
	ctx.obstacleManager = obstacle.NewManager(ctx, randengine.New(c.Control.Seed))

	ctx.state = changelane.NewState()
	ctx.decider = changelane.NewDecider(ctx.clock, ctx.runtimeConfig.LC, ctx.runtimeConfig.SG, ctx.state)

	log.Infof("session %s of job %s created", ctx.session, ctx.job)
	return ctx
}

func (ctx *Context) Session() string {
	return ctx.session
}

func (ctx *Context) ReferenceLineManager() entity.IReferenceLineManager {
	return ctx.referenceLineManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Init() {
	ctx.clock.Init()

	initRes := ctx.initRes
	scenario := initRes.Scenario

	log.Infof("Lane: %v", len(initRes.Map.Lanes))
	log.Infof("Scenario lane: %v", len(scenario.Lanes))
	log.Infof("Obstacle: %v", len(scenario.Obstacles))
	log.Infof("Desire: %v", len(scenario.Desires))

	// 先完成参考线的所有初始化
	ctx.referenceLineManager.Init(initRes.Map.Lanes)
	ctx.referenceLineManager.Add(lo.Map(scenario.Lanes, func(spec input.LaneSpec, _ int) *refline.ReferenceLine {
		line := lo.Map(spec.Points, func(p []float64, _ int) geometry.Point {
			return geometry.Point{X: p[0], Y: p[1]}
		})
		return refline.New(spec.ID, line, spec.Left, spec.Right)
	})...)

	// 在参考线的基础上构建障碍物与自车
	ctx.obstacleManager.Init(scenario.Obstacles)
	lane, err := ctx.referenceLineManager.GetOrError(scenario.Ego.LaneID)
	if err != nil {
		log.Panicf("ego: %v", err)
	}
	ctx.ego = newEgo(scenario.Ego, lane)
	log.Infof("init %v", ctx.ego)
}

func (ctx *Context) Close() {
	if ctx.closed.Load() {
		return
	}
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
	if ctx.recorder != nil {
		if err := ctx.recorder.Close(); err != nil {
			log.Errorf("failed to close recorder: %v", err)
		}
	}
	ctx.closed.Store(true)
}
