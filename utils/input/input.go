package input

import (
	"context"

	"git.fiblab.net/general/common/v2/cache"
	"git.fiblab.net/general/common/v2/mongoutil"
	"git.fiblab.net/general/common/v2/protoutil"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/protobuf/proto"
)

// Input 输入数据
// 功能：存储规划会话所需的所有输入数据
// 说明：地图可以来自文件或MongoDB，也可以为空（此时参考线全部来自场景）
type Input struct {
	Map      *mapv2.Map
	Scenario *Scenario
}

// Init 下载数据
// 功能：根据配置初始化并加载所有输入数据
// 参数：config-配置对象，cacheDir-缓存目录
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 场景加载：场景文件必须存在
// 2. 地图加载：优先从文件加载，其次从MongoDB（带缓存）加载，都未配置时为空地图
// 3. 数据验证：场景中的车道与地图车道不得同时为空
func Init(config config.Config, cacheDir string) (res *Input) {
	res = &Input{}

	scenario, err := LoadScenario(config.Input.Scenario)
	if err != nil {
		log.Panicf("failed to load scenario: %v", err)
	}
	res.Scenario = scenario

	switch {
	case config.Input.Map.File != "":
		var m mapv2.Map
		if err := protoutil.UnmarshalFromFile(&m, config.Input.Map.File); err != nil {
			log.Panicf("failed to load map from file: %v", err)
		}
		res.Map = &m
	case config.Input.Map.DB != "" && config.Input.Map.Col != "":
		useCache := preCheckCache(cacheDir)
		if !useCache {
			cacheDir = ""
		}
		var client *mongo.Client
		if config.Input.URI != "" {
			client = mongoutil.NewClient(config.Input.URI)
			defer client.Disconnect(context.Background())
		}
		res.Map = mustLoad[mapv2.Map](client, config.Input.Map, cacheDir, nil, nil)
	default:
		log.Info("no map configured, use lanes in scenario only")
		res.Map = &mapv2.Map{}
	}

	if len(res.Map.Lanes) == 0 && len(res.Scenario.Lanes) == 0 {
		log.Panic("no lanes in map or scenario, please check data")
	}
	return
}

// mustLoad 必须加载数据（泛型函数）
// 功能：从MongoDB或缓存中加载数据
// 参数：client-MongoDB客户端，inputPath-输入路径配置，cacheDir-缓存目录，classNameMapper-类名映射器，handler-数据处理函数，opts-查询选项
// 返回：加载的数据对象
// 说明：only_cache为true时不连接数据库，只读缓存
func mustLoad[T any, PT interface {
	proto.Message
	*T
}](
	client *mongo.Client,
	inputPath config.InputPath,
	cacheDir string,
	classNameMapper func(string) string,
	handler func(className string, pb any, rawBson bson.Raw) error,
	opts ...*options.FindOptions,
) (res PT) {
	var downloadFunc func() PT
	var err error
	if !inputPath.OnlyCache {
		if client == nil {
			log.Panicf("input.uri must be specified to download %s.%s", inputPath.DB, inputPath.Col)
		}
		coll := mongoutil.GetMongoColl(client, inputPath)
		downloadFunc = func() PT {
			pb, errs := mongoutil.DownloadPbFromMongo[T, PT](context.Background(), coll, classNameMapper, handler, opts...)
			if len(errs) > 0 {
				for _, err := range errs {
					log.Errorf("failed to download: %v", err)
				}
				log.Panicln("failed to download")
			}
			return pb
		}
	}
	log.Infof("start fetching from %s.%s", inputPath.DB, inputPath.Col)
	res, err = cache.LoadWithCache(cacheDir, inputPath, downloadFunc)
	if err != nil {
		log.Panicf("failed to load with cache: %v", err)
	}
	log.Infof("finish fetching from %s.%s", inputPath.DB, inputPath.Col)
	return
}
