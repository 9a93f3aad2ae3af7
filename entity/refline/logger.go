package refline

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "refline")
