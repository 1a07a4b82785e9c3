package models

// ScheduleItem is a recurring weekly timetable entry. DayOfWeek runs
// 1 (Monday) through 5 (Friday). At most one item may exist per
// (teacherId, dayOfWeek, timeSlotId) triple; the store enforces this by
// overwrite on upsert. Class double-booking is not guarded.
type ScheduleItem struct {
	ID         string `json:"id"`
	ClassID    string `json:"classId"`
	TimeSlotID string `json:"timeSlotId"`
	DayOfWeek  int    `json:"dayOfWeek"`
	SubjectID  string `json:"subjectId"`
	TeacherID  string `json:"teacherId"`
}
