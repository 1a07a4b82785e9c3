package models

// TimeSlotType distinguishes teaching periods from breaks.
type TimeSlotType string

const (
	SlotLearning TimeSlotType = "LEARNING"
	SlotBreak    TimeSlotType = "BREAK"
)

// TimeSlot represents one numbered period of the daily timetable.
// PeriodNumber is 1-based and defines the canonical ordering. BREAK slots
// never host a schedule item and never count toward leave or substitution.
type TimeSlot struct {
	ID           string       `json:"id"`
	PeriodNumber int          `json:"periodNumber"`
	StartTime    string       `json:"startTime"`
	EndTime      string       `json:"endTime"`
	Type         TimeSlotType `json:"type"`
}
