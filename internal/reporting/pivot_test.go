package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countryBySexPivot() PivotResult {
	return PivotResult{
		Pivot: []PivotResult{
			{Value: "Somalia", Count: Count(5), Pivot: []PivotResult{
				{Value: "male", Count: Count(3)},
				{Value: "female", Count: Count(2)},
			}},
			{Value: "Burundi", Count: Count(7), Pivot: []PivotResult{
				{Value: "male", Count: Count(3)},
				{Value: "female", Count: Count(4)},
			}},
			{Value: "Kenya", Count: Count(9), Pivot: []PivotResult{
				{Value: "male", Count: Count(5)},
				{Value: "female", Count: Count(4)},
			}},
		},
	}
}

func TestParsePivot_BuildsVectorKeyedByPivotFields(t *testing.T) {
	vec := ParsePivot([]string{"country", "sex"}, countryBySexPivot())

	want := []Row{
		{Key: []string{"", ""}, Total: nil},
		{Key: []string{"Somalia", ""}, Total: Count(5)},
		{Key: []string{"Somalia", "male"}, Total: Count(3)},
		{Key: []string{"Somalia", "female"}, Total: Count(2)},
		{Key: []string{"Burundi", ""}, Total: Count(7)},
		{Key: []string{"Burundi", "male"}, Total: Count(3)},
		{Key: []string{"Burundi", "female"}, Total: Count(4)},
		{Key: []string{"Kenya", ""}, Total: Count(9)},
		{Key: []string{"Kenya", "male"}, Total: Count(5)},
		{Key: []string{"Kenya", "female"}, Total: Count(4)},
	}
	assert.Equal(t, want, vec.Rows())
}

func TestParsePivot_EmptyTreeYieldsNilRoot(t *testing.T) {
	vec := ParsePivot([]string{"sex"}, PivotResult{})

	require.Equal(t, 1, vec.Len())
	total, ok := vec.Get("")
	assert.True(t, ok)
	assert.Nil(t, total)
}

func TestParsePivot_RootKeepsTopLevelCount(t *testing.T) {
	vec := ParsePivot([]string{"sex"}, PivotResult{Count: Count(4), Pivot: []PivotResult{{Value: "female", Count: Count(4)}}})

	total, ok := vec.Get("")
	require.True(t, ok)
	assert.Equal(t, int64(4), *total)
}

func TestParsePivot_LeafAboveFullDepthIsPadded(t *testing.T) {
	tree := PivotResult{Pivot: []PivotResult{
		{Value: "open", Count: Count(2)},
		{Value: "closed", Count: Count(1), Pivot: []PivotResult{{Value: "male", Count: Count(1)}}},
	}}

	vec := ParsePivot([]string{"status", "sex", "age"}, tree)

	assert.Equal(t, []Row{
		{Key: []string{"", "", ""}},
		{Key: []string{"open", "", ""}, Total: Count(2)},
		{Key: []string{"closed", "", ""}, Total: Count(1)},
		{Key: []string{"closed", "male", ""}, Total: Count(1)},
	}, vec.Rows())
}

func TestParsePivot_IgnoresLevelsBeyondDimensions(t *testing.T) {
	vec := ParsePivot([]string{"country"}, countryBySexPivot())

	assert.Equal(t, 4, vec.Len())
	total, ok := vec.Get("Kenya")
	require.True(t, ok)
	assert.Equal(t, int64(9), *total)
}
