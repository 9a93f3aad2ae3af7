package clock_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	clockv1 "git.fiblab.net/sim/protos/v2/go/city/clock/v1"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/clock"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
)

func TestClockTick(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 10, Total: 3, Interval: 0.5})
	assert.Equal(t, 5.0, c.T)
	assert.False(t, c.Finished())
	c.Tick()
	assert.Equal(t, int32(11), c.InternalStep)
	assert.Equal(t, 5.5, c.T)
	c.Tick()
	assert.True(t, c.Finished())
	c.Init()
	assert.Equal(t, 5.0, c.T)
}

func TestClockString(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 36610, Total: 1, Interval: 0.1})
	// 3661秒
	assert.Equal(t, "01:01:01.00", c.String())
}

func TestClockNow(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 4, Total: 10, Interval: 0.25})
	res, err := c.Now(context.Background(), connect.NewRequest(&clockv1.NowRequest{}))
	assert.NoError(t, err)
	assert.Equal(t, 1.0, res.Msg.T)
}
