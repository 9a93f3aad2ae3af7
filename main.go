package main

import (
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/task"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
	"gopkg.in/yaml.v2"
)

var (
	// 规划周期由syncer统一推进；为空时规划器自行推进直到总步数用完
	syncerAddr = flag.String("syncer", "", "syncer address driving the planning cycles, empty to run standalone, e.g. http://localhost:53001")
	job        = flag.String("job", "job0", "job name shown in logs and planning session records")
	// 对外提供时钟查询RPC
	grpcAddr = flag.String("listen", ":51102", "address serving the planner clock RPC")
	// 二选一，-config优先
	configPath = flag.String("config", "", "planner YAML config path")
	configData = flag.String("config-data", "", "base64 encoded planner YAML config, used when -config is empty")
	// 地图参考线的本地缓存目录
	cacheDir = flag.String("cache", "data/", "cache dir for map lanes loaded from MongoDB (empty disables the cache)")

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off），debug级别输出每周期的仲裁过程")

	log = logrus.WithField("module", "lanechange")
)

// readConfig 读取并严格解析规划器配置，未知字段视为错误
func readConfig() (config.Config, error) {
	var c config.Config
	var data []byte
	var err error
	switch {
	case *configPath != "":
		if data, err = os.ReadFile(*configPath); err != nil {
			return c, fmt.Errorf("read config %s: %w", *configPath, err)
		}
	case *configData != "":
		if data, err = base64.StdEncoding.DecodeString(*configData); err != nil {
			return c, fmt.Errorf("decode config data: %w", err)
		}
	default:
		return c, errors.New("either -config or -config-data is required")
	}
	if err = yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	level, ok := logLevels[*logLevel]
	if !ok {
		log.Panicf("log.level must be one of %v", lo.Keys(logLevels))
	}
	logrus.SetLevel(level)

	c, err := readConfig()
	if err != nil {
		log.Panic(err)
	}
	rc := config.NewRuntimeConfig(c)
	log.Infof("change lane: %+v", rc.LC)
	log.Infof("safety gate: %+v", rc.SG)

	planner := task.NewContext(*job, *cacheDir, c, syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr), true)
	planner.Run()
}
