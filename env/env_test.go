package env_test

import (
	"testing"
	"time"

	"github.com/tomerfiliba/argbind/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Logging struct {
	Level  int    `env:"LOG_LEVEL=0"`
	Format string `env:"LOG_FORMAT=text"`
	File   string `env:"LOG_FILE="`
}

type Spec struct {
	User     string        `env:"USER"`
	Shell    string        `env:"SHELL=/bin/sh"`
	Debug    bool          `env:"DEBUG=false"`
	Workers  uint8         `env:"WORKERS=4"`
	Ratio    float64       `env:"RATIO=0.5"`
	Interval time.Duration `env:"INTERVAL=5s"`
	Logging  Logging       `env:"*"`
	Ignored  string
}

func TestLoadSpec(t *testing.T) {
	spec := Spec{}
	err := env.LoadSpecFrom(&spec, env.FromMap(map[string]string{
		"USER":      "tomer",
		"DEBUG":     "yes",
		"INTERVAL":  "30",
		"LOG_LEVEL": "3",
		"SHELL":     "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "tomer", spec.User)
	assert.Equal(t, "/bin/sh", spec.Shell)
	assert.True(t, spec.Debug)
	assert.Equal(t, uint8(4), spec.Workers)
	assert.Equal(t, 0.5, spec.Ratio)
	assert.Equal(t, 30*time.Second, spec.Interval)
	assert.Equal(t, 3, spec.Logging.Level)
	assert.Equal(t, "text", spec.Logging.Format)
	assert.Equal(t, "", spec.Logging.File)
}

func TestLoadSpecErrors(t *testing.T) {
	spec := Spec{}
	err := env.LoadSpecFrom(&spec, env.FromMap(map[string]string{
		"DEBUG":   "maybe",
		"WORKERS": "300",
	}))
	assert.ErrorContains(t, err, "missing required env var USER")
	assert.ErrorContains(t, err, "parsing DEBUG")
	assert.ErrorContains(t, err, "parsing WORKERS")

	assert.ErrorContains(t, env.LoadSpecFrom(spec, env.FromMap(nil)), "pointer to a struct")
}

func TestLookups(t *testing.T) {
	lookup := env.FromPairs([]string{"A=1", "B=x=y", "A=2", "broken", "=nope", "EMPTY="})
	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	v, _ = lookup("B")
	assert.Equal(t, "x=y", v)
	v, ok = lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = lookup("broken")
	assert.False(t, ok)

	m := map[string]string{"K": "before"}
	lookup = env.FromMap(m)
	m["K"] = "after"
	v, _ = lookup("K")
	assert.Equal(t, "before", v)
}

func TestSnapshotIsFrozen(t *testing.T) {
	t.Setenv("ARGBIND_SNAPSHOT_TEST", "one")
	lookup := env.Snapshot()
	t.Setenv("ARGBIND_SNAPSHOT_TEST", "two")
	v, ok := lookup("ARGBIND_SNAPSHOT_TEST")
	assert.True(t, ok)
	assert.Equal(t, "one", v)
}
