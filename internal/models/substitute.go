package models

// SubStatus tracks the lifecycle of a substitute assignment.
type SubStatus string

const (
	SubRequested SubStatus = "REQUESTED"
	SubAccepted  SubStatus = "ACCEPTED"
	SubRejected  SubStatus = "REJECTED"
)

// SubstituteAssignment covers exactly one period of one leave request.
// A REJECTED assignment is logically withdrawn: the slot it covered may
// receive a fresh assignment, and multiple rejected records can coexist
// for the same (leaveRequestId, periodNumber) pair.
type SubstituteAssignment struct {
	ID                string    `json:"id"`
	LeaveRequestID    string    `json:"leaveRequestId"`
	OriginalTeacherID string    `json:"originalTeacherId"`
	SubTeacherID      string    `json:"subTeacherId"`
	Date              string    `json:"date"`
	PeriodNumber      int       `json:"periodNumber"`
	ClassID           string    `json:"classId"`
	SubjectID         string    `json:"subjectId"`
	Status            SubStatus `json:"status"`
	RejectReason      string    `json:"rejectReason,omitempty"`
}
