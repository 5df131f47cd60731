package domain

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassCountStats_PreservesInsertionOrder(t *testing.T) {
	var c ClassCountStats
	c.Increment("Nets", 1)
	c.Increment("Jigging", 2)
	c.Increment("Nets", 3)
	c.Add("Longline", BaseCountStats{Respondents: 2, People: 5})

	assert.Equal(t, []string{"Nets", "Jigging", "Longline"}, c.Keys())

	nets, ok := c.Get("Nets")
	require.True(t, ok)
	assert.Equal(t, BaseCountStats{Respondents: 2, People: 4}, nets)
	assert.Equal(t, BaseCountStats{Respondents: 5, People: 11}, c.Total())
}

func TestClassCountStats_CloneIsIndependent(t *testing.T) {
	var c ClassCountStats
	c.Increment("HA", 1)

	clone := c.Clone()
	clone.Increment("HA", 1)

	orig, _ := c.Get("HA")
	assert.Equal(t, 1, orig.Respondents)
	copied, _ := clone.Get("HA")
	assert.Equal(t, 2, copied.Respondents)
}

func TestClassCountStats_JSON(t *testing.T) {
	var c ClassCountStats
	c.Increment("zeta", 1)
	c.Increment("alpha", 20)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":{"respondents":1,"people":1},"alpha":{"respondents":1,"people":20}}`, string(data))

	var back ClassCountStats
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zeta", "alpha"}, back.Keys())
	assert.Equal(t, c.AsMap(), back.AsMap())
}

func TestClassCountStats_UnmarshalRejectsNonObject(t *testing.T) {
	var c ClassCountStats
	assert.Error(t, json.Unmarshal([]byte(`[{"respondents":1}]`), &c))

	require.NoError(t, json.Unmarshal([]byte(`null`), &c))
	assert.Equal(t, 0, c.Len())
}

func TestOusStats_EmptyJSON(t *testing.T) {
	data, err := json.Marshal(OusStats{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"respondents":0,"people":0,"bySector":{},"byAtoll":{},"byIsland":{},"byGear":{}}`, string(data))
}

func TestOusReportResult_Clone(t *testing.T) {
	sketchID := "sketch-1"
	res := &OusReportResult{
		Metrics: []Metric{NewMetric(MetricPeopleCount, ClassPeopleCountAll, 3, &sketchID)},
	}
	res.Stats.ByAtoll.Increment("HA", 3)

	clone := res.Clone()
	*clone.Metrics[0].SketchID = "other"
	clone.Stats.ByAtoll.Increment("HA", 1)

	assert.Equal(t, "sketch-1", *res.Metrics[0].SketchID)
	atoll, _ := res.Stats.ByAtoll.Get("HA")
	assert.Equal(t, 1, atoll.Respondents)
}

func TestMetric_Key(t *testing.T) {
	id := "s1"
	withSketch := NewMetric(MetricRespondentCount, "HA", 1, &id)
	without := NewMetric(MetricRespondentCount, "HA", 1, nil)

	assert.NotEqual(t, withSketch.Key(), without.Key())
	assert.Equal(t, withSketch.Key(), NewMetric(MetricRespondentCount, "HA", 7, &id).Key())
}
