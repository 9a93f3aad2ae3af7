package changelane

import "github.com/sirupsen/logrus"

// log 变道决策模块的日志记录器
var log = logrus.WithField("module", "changelane")
