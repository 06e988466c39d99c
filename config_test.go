// -*- tab-width:2 -*-
package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
messages: 50
loss_probability: 0.1
corruption_probability: 0.2
mean_interarrival: 25
seed: 42
drain: true
protocol:
  name: sr
  window: 4
  seq_space: 16
  nak_stale: true
`

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 50, c.Messages)
	assert.InDelta(t, 0.1, c.LossProb, 1e-9)
	assert.InDelta(t, 0.2, c.CorruptProb, 1e-9)
	assert.InDelta(t, 25.0, c.MeanInterarrival, 1e-9)
	assert.Equal(t, int64(42), c.Seed)
	assert.True(t, c.Drain)
	assert.Equal(t, "none", c.Trace, "default kept")
	assert.Equal(t, ProtocolConf{Name: "sr", Window: 4, SeqSpace: 16, NakStale: true}, c.Protocol)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sr", c.Protocol.Name)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	_, err := ParseConfig([]byte("messages: 0"))
	require.ErrorIs(t, err, errBadMessages)

	_, err = ParseConfig([]byte("loss_probability: 1.5"))
	require.ErrorIs(t, err, errBadProbability)

	_, err = ParseConfig([]byte("corruption_probability: -0.1"))
	require.ErrorIs(t, err, errBadProbability)

	_, err = ParseConfig([]byte("mean_interarrival: 0"))
	require.ErrorIs(t, err, errBadInterval)

	_, err = ParseConfig([]byte("distribution: pareto"))
	require.ErrorIs(t, err, errBadDistribution)

	_, err = ParseConfig([]byte("messages: [1"))
	require.Error(t, err)

	c := DefaultConfig()
	c.MeanInterarrival = 0
	c.Interarrival = ConstantCDF(3)
	require.NoError(t, c.Validate())
}

func TestConfigDistribution(t *testing.T) {
	c, err := ParseConfig([]byte("distribution: exponential\nmean_interarrival: 10"))
	require.NoError(t, err)

	cdf, err := c.interarrivalCDF()
	require.NoError(t, err)
	assert.InDelta(t, ExponentialCDF(10)(0.3), cdf(0.3), 1e-9)

	c = DefaultConfig()
	cdf, err = c.interarrivalCDF()
	require.NoError(t, err)
	assert.InDelta(t, c.MeanInterarrival, cdf(0.5), 1e-9, "uniform on [0, 2*mean]")
}
