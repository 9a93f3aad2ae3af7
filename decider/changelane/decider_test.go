package changelane_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/clock"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/decider/changelane"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/entity"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
)

var testChangeLane = config.ChangeLanePolicy{
	FailFreezeTime:    3,
	SuccessFreezeTime: 5,
	Duration:          4,
}

func newTestDecider(lc config.ChangeLanePolicy) (*changelane.Decider, *clock.Clock) {
	c := clock.New(config.ControlStep{Start: 0, Total: 10000, Interval: 0.1})
	return changelane.NewDecider(c, lc, config.DefaultSafetyGate(), changelane.NewState()), c
}

func countChangeLane(infos []entity.IReferenceLineInfo) int {
	return lo.CountBy(infos, func(info entity.IReferenceLineInfo) bool { return info.IsChangeLanePath() })
}

func TestApplyEmpty(t *testing.T) {
	d, _ := newTestDecider(config.ChangeLanePolicy{Reckless: true})
	infos := []entity.IReferenceLineInfo{}
	assert.False(t, d.Apply(&infos))
	assert.False(t, d.State().HasStatus())
}

func TestApplyReckless(t *testing.T) {
	d, _ := newTestDecider(config.ChangeLanePolicy{Reckless: true})
	infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
	// 放行模式不读写变道状态
	assert.False(t, d.State().HasStatus())

	d.UpdateStatusAt(0, changelane.StatusChangeLaneFailed, "L1")
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneFailed, d.State().Status)
}

func TestApplyFirstCycle(t *testing.T) {
	d, c := newTestDecider(testChangeLane)
	c.T = 1.5
	infos := []entity.IReferenceLineInfo{cur("L1")}
	assert.True(t, d.Apply(&infos))
	s := d.State()
	assert.True(t, s.HasStatus())
	assert.Equal(t, changelane.StatusChangeLaneSuccess, s.Status)
	assert.Equal(t, "L1", s.PathID)
	assert.Equal(t, 1.5, s.Timestamp)
	assert.Equal(t, []string{"L1"}, ids(infos))

	// 首个周期不修改候选列表
	d, _ = newTestDecider(testChangeLane)
	infos = []entity.IReferenceLineInfo{lcl("L2"), cur("L1")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
	assert.Equal(t, "L1", d.State().PathID)
}

func TestApplySingleCandidate(t *testing.T) {
	cases := map[string]struct {
		status     changelane.Status
		wantStatus changelane.Status
		wantPathID string
		wantTime   float64
	}{
		"in change lane": {changelane.StatusInChangeLane, changelane.StatusChangeLaneSuccess, "L2", 10},
		"success":        {changelane.StatusChangeLaneSuccess, changelane.StatusChangeLaneSuccess, "L1", 0},
		"failed":         {changelane.StatusChangeLaneFailed, changelane.StatusChangeLaneFailed, "L1", 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d, c := newTestDecider(testChangeLane)
			d.UpdateStatusAt(0, tc.status, "L1")
			c.T = 10
			infos := []entity.IReferenceLineInfo{cur("L2")}
			assert.True(t, d.Apply(&infos))
			assert.Equal(t, tc.wantStatus, d.State().Status)
			assert.Equal(t, tc.wantPathID, d.State().PathID)
			assert.Equal(t, tc.wantTime, d.State().Timestamp)
			assert.Equal(t, []string{"L2"}, ids(infos))
		})
	}
}

func TestApplyUnknownStatus(t *testing.T) {
	for _, infos := range [][]entity.IReferenceLineInfo{
		{cur("L1")},
		{cur("L1"), lcl("L2")},
	} {
		d, _ := newTestDecider(testChangeLane)
		d.UpdateStatusAt(0, changelane.Status(99), "L1")
		n := len(infos)
		assert.False(t, d.Apply(&infos))
		assert.Len(t, infos, n)
		assert.Equal(t, changelane.Status(99), d.State().Status)
	}
}

func TestApplyNoCurrentLane(t *testing.T) {
	d, _ := newTestDecider(testChangeLane)
	d.UpdateStatusAt(0, changelane.StatusChangeLaneSuccess, "L1")
	infos := []entity.IReferenceLineInfo{lcl("L2"), lcl("L3")}
	assert.False(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L3"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneSuccess, d.State().Status)
}

func TestApplyInChangeLane(t *testing.T) {
	// 目标未变：优先变道参考线，状态不变
	d, c := newTestDecider(testChangeLane)
	d.UpdateStatusAt(1, changelane.StatusInChangeLane, "L1")
	c.T = 2
	infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
	assert.Equal(t, changelane.StatusInChangeLane, d.State().Status)
	assert.Equal(t, 1.0, d.State().Timestamp)

	// 当前车道已变化：删除变道参考线并视为成功
	d, c = newTestDecider(testChangeLane)
	d.UpdateStatusAt(1, changelane.StatusInChangeLane, "L2")
	c.T = 2
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L1"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneSuccess, d.State().Status)
	assert.Equal(t, "L1", d.State().PathID)
	assert.Equal(t, 2.0, d.State().Timestamp)
}

func TestApplyFailed(t *testing.T) {
	d, c := newTestDecider(testChangeLane)
	d.UpdateStatusAt(10, changelane.StatusChangeLaneFailed, "L1")

	// 冻结时间内
	c.T = 12.9
	infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L1"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneFailed, d.State().Status)
	assert.Equal(t, 10.0, d.State().Timestamp)

	// 冻结时间结束：重新进入变道状态，本周期不调整候选顺序
	c.T = 13
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L1", "L2"}, ids(infos))
	assert.Equal(t, changelane.StatusInChangeLane, d.State().Status)
	assert.Equal(t, "L1", d.State().PathID)
	assert.Equal(t, 13.0, d.State().Timestamp)

	// 下一周期优先变道参考线
	c.T = 13.1
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
}

func TestApplySuccess(t *testing.T) {
	d, c := newTestDecider(testChangeLane)
	d.UpdateStatusAt(10, changelane.StatusChangeLaneSuccess, "L1")

	c.T = 14.9
	infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L1"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneSuccess, d.State().Status)
	assert.Equal(t, 10.0, d.State().Timestamp)

	c.T = 15
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L2", "L1"}, ids(infos))
	assert.Equal(t, changelane.StatusInChangeLane, d.State().Status)
	assert.Equal(t, "L1", d.State().PathID)
	assert.Equal(t, 15.0, d.State().Timestamp)
}

func TestApplyIdempotent(t *testing.T) {
	for _, status := range []changelane.Status{
		changelane.StatusInChangeLane,
		changelane.StatusChangeLaneSuccess,
		changelane.StatusChangeLaneFailed,
	} {
		d, c := newTestDecider(testChangeLane)
		d.UpdateStatusAt(10, status, "L1")
		c.T = 11

		first := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
		require.True(t, d.Apply(&first))
		s1 := *d.State()
		second := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
		require.True(t, d.Apply(&second))
		assert.Equal(t, s1, *d.State(), "status=%v", status)
		assert.Equal(t, ids(first), ids(second), "status=%v", status)
	}
}

// 单条变道参考线输入时，输出至多一条变道参考线
func TestApplyAtMostOneChangeLane(t *testing.T) {
	for _, status := range []changelane.Status{
		changelane.StatusInChangeLane,
		changelane.StatusChangeLaneSuccess,
		changelane.StatusChangeLaneFailed,
	} {
		for _, now := range []float64{10, 20} {
			d, c := newTestDecider(testChangeLane)
			d.UpdateStatusAt(10, status, "L1")
			c.T = now
			infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
			require.True(t, d.Apply(&infos))
			assert.LessOrEqual(t, countChangeLane(infos), 1)
			assert.NotEmpty(t, infos)
		}
	}
}

// 候选构建每周期至多提供一条变道参考线；多于一条时仲裁只移动第一条，不做删减
func TestApplyMultipleChangeLane(t *testing.T) {
	cases := map[string]struct {
		lc       config.ChangeLanePolicy
		status   changelane.Status
		now      float64
		expected []string
	}{
		"success expired":  {testChangeLane, changelane.StatusChangeLaneSuccess, 20, []string{"L2", "L1", "L3"}},
		"in change lane":   {testChangeLane, changelane.StatusInChangeLane, 11, []string{"L2", "L1", "L3"}},
		"reckless":         {config.ChangeLanePolicy{Reckless: true}, changelane.StatusChangeLaneSuccess, 11, []string{"L2", "L1", "L3"}},
		"failed expired":   {testChangeLane, changelane.StatusChangeLaneFailed, 20, []string{"L1", "L2", "L3"}},
		"success freezing": {testChangeLane, changelane.StatusChangeLaneSuccess, 11, []string{"L1"}},
		"failed freezing":  {testChangeLane, changelane.StatusChangeLaneFailed, 11, []string{"L1"}},
	}
	for name, tc := range cases {
		d, c := newTestDecider(tc.lc)
		d.UpdateStatusAt(10, tc.status, "L1")
		c.T = tc.now
		infos := []entity.IReferenceLineInfo{cur("L1"), lcl("L2"), lcl("L3")}
		require.True(t, d.Apply(&infos), name)
		assert.Equal(t, tc.expected, ids(infos), name)
		assert.Equal(t, len(tc.expected)-1, countChangeLane(infos), name)
	}
}

func TestApplyScenarios(t *testing.T) {
	// 空状态，只有当前车道L1
	d, _ := newTestDecider(testChangeLane)
	infos := []entity.IReferenceLineInfo{cur("L1")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, changelane.StatusChangeLaneSuccess, d.State().Status)
	assert.Equal(t, "L1", d.State().PathID)

	// 正在变道到L2时当前车道仍为L1，与记录不符
	d, _ = newTestDecider(testChangeLane)
	d.UpdateStatusAt(0, changelane.StatusInChangeLane, "L2")
	infos = []entity.IReferenceLineInfo{cur("L1"), lcl("L2")}
	assert.True(t, d.Apply(&infos))
	assert.Equal(t, []string{"L1"}, ids(infos))
	assert.Equal(t, changelane.StatusChangeLaneSuccess, d.State().Status)
	assert.Equal(t, "L1", d.State().PathID)
}

func TestUpdateStatus(t *testing.T) {
	d, c := newTestDecider(testChangeLane)
	c.T = 7.5
	d.UpdateStatus(changelane.StatusChangeLaneFailed, "L3")
	s := d.State()
	assert.True(t, s.HasStatus())
	assert.Equal(t, changelane.StatusChangeLaneFailed, s.Status)
	assert.Equal(t, "L3", s.PathID)
	assert.Equal(t, 7.5, s.Timestamp)
	assert.Equal(t, `ChangeLaneStatus{status=CHANGE_LANE_FAILED, path_id="L3", timestamp=7.500}`, s.String())
	assert.Equal(t, "Status(99)", changelane.Status(99).String())
}
