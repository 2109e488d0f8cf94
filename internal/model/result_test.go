package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorResult_MarshalJSON_Ungrouped(t *testing.T) {
	res := IndicatorResult{
		Name:   "elapsed_reporting_time",
		Totals: []IDTotal{{ID: "0_3_days", Total: 2}},
	}

	out, err := json.Marshal(res)

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"elapsed_reporting_time","data":[{"id":"0_3_days","total":2}]}`, string(out))
}

func TestIndicatorResult_MarshalJSON_Grouped(t *testing.T) {
	res := IndicatorResult{
		Name:      "elapsed_reporting_time",
		GroupedBy: "year",
		Groups: []Group{
			{GroupID: 2020, Data: []IDTotal{{ID: "0_3_days", Total: 1}}},
			{GroupID: 2021, Data: []IDTotal{}},
		},
	}

	out, err := json.Marshal(res)

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"elapsed_reporting_time","grouped_by":"year","data":[
		{"group_id":2020,"data":[{"id":"0_3_days","total":1}]},
		{"group_id":2021,"data":[]}
	]}`, string(out))
}

func TestIndicatorResult_MarshalJSON_EmptyIsList(t *testing.T) {
	out, err := json.Marshal(IndicatorResult{Name: "x"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","data":[]}`, string(out))
}

func TestValueRow_NilTotalIsNull(t *testing.T) {
	out, err := json.Marshal(ValueRow{Key: []string{""}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"key":[""],"total":null}`, string(out))
}
