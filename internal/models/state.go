package models

// State is the full set of collections the service operates on. The
// remote tabular store delivers it wholesale on load, and read paths
// (the availability resolver in particular) work against a copied
// State rather than live collections.
type State struct {
	Teachers  []Teacher              `json:"teachers"`
	Subjects  []Subject              `json:"subjects"`
	Classes   []ClassRoom            `json:"classes"`
	TimeSlots []TimeSlot             `json:"timeSlots"`
	Schedules []ScheduleItem         `json:"schedules"`
	Leaves    []LeaveRequest         `json:"leaves"`
	Subs      []SubstituteAssignment `json:"subs"`
}
