package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-lanechange-oss/utils/config"
	"gopkg.in/yaml.v2"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})
	assert.Equal(t, 3.0, rc.LC.FailFreezeTime)
	assert.Equal(t, 3.0, rc.LC.SuccessFreezeTime)
	assert.Equal(t, 4.0, rc.LC.Duration)
	assert.Equal(t, config.DefaultSafetyGate(), rc.SG)
	assert.False(t, rc.LC.Reckless)
}

func TestRuntimeConfigFromYAML(t *testing.T) {
	data := `
input:
  uri: ""
  map:
    db: srt
    col: map_test
    file: data/map.pb
  scenario: data/scenario.yaml
control:
  step:
    start: 0
    total: 100
    interval: 0.1
  change_lane:
    reckless: true
    fail_freeze_time: 5
    success_freeze_time: 1.5
  safety_gate:
    lateral_shift: 3
    safe_time_on_same_direction: 2
    safe_time_on_opposite_direction: 4
    forward_min_safe_distance_on_same_direction: 5
    backward_min_safe_distance_on_same_direction: 7
    forward_min_safe_distance_on_opposite_direction: 40
    backward_min_safe_distance_on_opposite_direction: 2
    distance_buffer: 1
output:
  sqlite: out.db
`
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(data), &c))
	rc := config.NewRuntimeConfig(c)
	assert.True(t, rc.LC.Reckless)
	assert.Equal(t, 5.0, rc.LC.FailFreezeTime)
	assert.Equal(t, 1.5, rc.LC.SuccessFreezeTime)
	assert.Equal(t, 4.0, rc.LC.Duration)
	assert.Equal(t, 3.0, rc.SG.LateralShift)
	assert.Equal(t, 1.0, rc.SG.DistanceBuffer)
	assert.Equal(t, 0.1, rc.C.Step.Interval)
	assert.Equal(t, "out.db", rc.All.Output.SQLite)
	assert.Equal(t, "srt.map_test.pb", rc.All.Input.Map.GetCachePath())
}

func TestUnknownFieldRejected(t *testing.T) {
	var c config.Config
	err := yaml.UnmarshalStrict([]byte("control:\n  change_lane:\n    freeze: 1\n"), &c)
	assert.Error(t, err)
}

func TestPartialSafetyGateKeepsDefaults(t *testing.T) {
	var c config.Config
	data := "control:\n  safety_gate:\n    lateral_shift: 3\n  change_lane:\n    fail_freeze_time: 0\n"
	require.NoError(t, yaml.UnmarshalStrict([]byte(data), &c))
	rc := config.NewRuntimeConfig(c)

	expected := config.DefaultSafetyGate()
	expected.LateralShift = 3
	assert.Equal(t, expected, rc.SG)
	assert.Equal(t, 0.5, rc.SG.DistanceBuffer)
	assert.Equal(t, 6.0, rc.SG.ForwardMinSafeDistanceOnSameDirection)

	// 显式设置的0表示不冻结，未设置的取默认值
	assert.Equal(t, 0.0, rc.LC.FailFreezeTime)
	assert.Equal(t, 3.0, rc.LC.SuccessFreezeTime)
}

func TestEmptySafetyGateUsesDefaults(t *testing.T) {
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte("control:\n  safety_gate: {}\n"), &c))
	require.NotNil(t, c.Control.SafetyGate)
	assert.Equal(t, config.DefaultSafetyGate(), config.NewRuntimeConfig(c).SG)
}

func TestUnknownSafetyGateFieldRejected(t *testing.T) {
	var c config.Config
	err := yaml.UnmarshalStrict([]byte("control:\n  safety_gate:\n    buffer: 1\n"), &c)
	assert.Error(t, err)
}

func TestNonPositiveDurationUsesDefault(t *testing.T) {
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte("control:\n  change_lane:\n    duration: -1\n"), &c))
	assert.Equal(t, 4.0, config.NewRuntimeConfig(c).LC.Duration)
}
