package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodListCoercion(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []int
	}{
		{name: "proper array", raw: `[1,2,3]`, want: []int{1, 2, 3}},
		{name: "empty array", raw: `[]`, want: []int{}},
		{name: "encoded list string", raw: `"[1,2]"`, want: []int{1, 2}},
		{name: "encoded list with spaces", raw: `" [4, 5] "`, want: []int{4, 5}},
		{name: "bare number", raw: `3`, want: []int{3}},
		{name: "numeric string", raw: `"7"`, want: []int{7}},
		{name: "float number", raw: `2.0`, want: []int{2}},
		{name: "null", raw: `null`, want: []int{}},
		{name: "garbage string", raw: `"doctor visit"`, want: []int{}},
		{name: "broken encoded list", raw: `"[1,2"`, want: []int{}},
		{name: "object", raw: `{"a":1}`, want: []int{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got PeriodList
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, PeriodList(tc.want), got)
		})
	}
}

func TestLeaveRequestDecodeWithMalformedPeriods(t *testing.T) {
	raw := `{"id":"l1","teacherId":"t1","date":"2025-11-24","periodNumbers":"[1,2]","reason":"clinic","status":"APPROVED"}`
	var leave LeaveRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &leave))
	assert.Equal(t, PeriodList{1, 2}, leave.PeriodNumbers)
	assert.True(t, leave.Contains(2))
	assert.False(t, leave.Contains(3))
}

func TestTeacherHasExpertise(t *testing.T) {
	teacher := Teacher{ID: "t1", Expertise: []string{"s1", "s2"}}
	assert.True(t, teacher.HasExpertise("s2"))
	assert.False(t, teacher.HasExpertise("s9"))
	assert.False(t, Teacher{}.HasExpertise("s1"))
}
