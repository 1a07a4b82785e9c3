// Package availability implements the conflict/availability resolver:
// given a date, a period and an optional subject requirement, it
// determines which teachers are free and ranks them by suitability.
// Everything here is a pure read over a State snapshot.
package availability

import (
	"sort"

	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/pkg/dates"
)

// OverloadThreshold is the daily workload at which consumers present a
// candidate as selectable-but-blocked. It is a display policy only: the
// resolver never excludes a teacher on workload, so an operator who
// insists on overbooking can still pick them.
const OverloadThreshold = 3

// RankedCandidate pairs a free teacher with the ranking signals
// computed for one (date, period, subject) query.
type RankedCandidate struct {
	Teacher  models.Teacher `json:"teacher"`
	IsExpert bool           `json:"isExpert"`
	Workload int            `json:"workload"`
}

// FindAvailableTeachers returns the teachers free to cover periodNumber
// on date, ranked experts first and then by ascending daily workload.
// The sort is stable: ties keep the relative order of the teacher
// collection. An unknown period yields an empty list.
//
// A teacher is busy when they have a schedule item at (weekday, slot) or
// an approved leave covering the period on that date. Serving as a
// substitute elsewhere at the same period does not exclude a teacher;
// it only raises their workload.
func FindAvailableTeachers(state models.State, date string, periodNumber int, requiredSubjectID string) []RankedCandidate {
	dayIndex := dates.Weekday(date)

	var target *models.TimeSlot
	for i := range state.TimeSlots {
		if state.TimeSlots[i].PeriodNumber == periodNumber {
			target = &state.TimeSlots[i]
			break
		}
	}
	if target == nil {
		return []RankedCandidate{}
	}

	busy := make(map[string]struct{})
	for _, item := range state.Schedules {
		if item.DayOfWeek == dayIndex && item.TimeSlotID == target.ID {
			busy[item.TeacherID] = struct{}{}
		}
	}
	for _, leave := range state.Leaves {
		if leave.Status == models.LeaveApproved && leave.Date == date && leave.Contains(periodNumber) {
			busy[leave.TeacherID] = struct{}{}
		}
	}

	candidates := make([]RankedCandidate, 0, len(state.Teachers))
	for _, teacher := range state.Teachers {
		if _, ok := busy[teacher.ID]; ok {
			continue
		}
		candidates = append(candidates, RankedCandidate{
			Teacher:  teacher,
			IsExpert: requiredSubjectID != "" && teacher.HasExpertise(requiredSubjectID),
			Workload: DailyWorkload(state, teacher.ID, date, dayIndex),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].IsExpert != candidates[j].IsExpert {
			return candidates[i].IsExpert
		}
		return candidates[i].Workload < candidates[j].Workload
	})
	return candidates
}

// DailyWorkload counts a teacher's committed periods on a given date:
// regular schedule items on that weekday plus substitute assignments on
// the date that have not been rejected.
func DailyWorkload(state models.State, teacherID, date string, dayIndex int) int {
	workload := 0
	for _, item := range state.Schedules {
		if item.TeacherID == teacherID && item.DayOfWeek == dayIndex {
			workload++
		}
	}
	for _, sub := range state.Subs {
		if sub.SubTeacherID == teacherID && sub.Date == date && sub.Status != models.SubRejected {
			workload++
		}
	}
	return workload
}

// Overloaded reports whether a candidate has reached the display-policy
// threshold.
func (c RankedCandidate) Overloaded() bool {
	return c.Workload >= OverloadThreshold
}
