package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LeaveStatus tracks the approval state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// LeaveRequest represents a teacher's request to be absent for one or
// more periods on a single calendar date. Only APPROVED requests are
// actionable for substitution.
type LeaveRequest struct {
	ID            string      `json:"id"`
	TeacherID     string      `json:"teacherId"`
	Date          string      `json:"date"`
	PeriodNumbers PeriodList  `json:"periodNumbers"`
	Reason        string      `json:"reason"`
	Status        LeaveStatus `json:"status"`
}

// Contains reports whether the request covers the given period.
func (l LeaveRequest) Contains(period int) bool {
	for _, p := range l.PeriodNumbers {
		if p == period {
			return true
		}
	}
	return false
}

// PeriodList is a set of period numbers. Upstream tabular storage has
// been observed to deliver this field as a proper array, as a
// JSON-encoded string ("[1,2]"), or as a bare scalar; decoding coerces
// all of those and never fails.
type PeriodList []int

// UnmarshalJSON implements lenient decoding. Unrecognised shapes decode
// to an empty list rather than an error.
func (p *PeriodList) UnmarshalJSON(data []byte) error {
	*p = coercePeriods(data)
	return nil
}

func coercePeriods(data []byte) []int {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return []int{}
	}

	var nums []float64
	if err := json.Unmarshal(data, &nums); err == nil {
		out := make([]int, 0, len(nums))
		for _, n := range nums {
			out = append(out, int(n))
		}
		return out
	}

	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		return []int{int(scalar)}
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return []int{}
	}
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &nums); err != nil {
			return []int{}
		}
		out := make([]int, 0, len(nums))
		for _, n := range nums {
			out = append(out, int(n))
		}
		return out
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return []int{n}
	}
	return []int{}
}
