package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDateDropsTimeOfDay(t *testing.T) {
	d := Date{time.Date(2024, 2, 29, 23, 59, 59, 999, time.Local)}

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, DateOf(d.Time).Equal(back.Time))
	assert.Equal(t, 0, back.Hour())
}

func TestDateYAML(t *testing.T) {
	type wrapper struct {
		When Date `yaml:"when"`
	}
	b, err := yaml.Marshal(wrapper{When: Date{time.Date(2023, 12, 1, 8, 0, 0, 0, time.Local)}})
	require.NoError(t, err)
	assert.Contains(t, string(b), "2023-12-01")

	var w wrapper
	require.NoError(t, yaml.Unmarshal(b, &w))
	assert.Equal(t, "2023-12-01", w.When.String())
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	for _, s := range []string{"", "2023/12/01", "01-12-2023", "2023-12-01T10:00:00Z"} {
		_, err := ParseDate(s)
		assert.Error(t, err, s)
	}
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`20231201`), &d))
}
