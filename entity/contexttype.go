package entity

import (
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
)

type ITaskContext interface {
	ReferenceLineManager() IReferenceLineManager
	RuntimeConfig() *config.RuntimeConfig
}
