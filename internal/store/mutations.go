package store

import (
	"github.com/schoolops/substitute-api/internal/models"
	"github.com/schoolops/substitute-api/internal/remote"
	"github.com/schoolops/substitute-api/pkg/dates"
	"github.com/schoolops/substitute-api/pkg/outbox"
)

// Partial records for targeted status transitions; the remote store
// merges fields onto the row matching id.
type leaveStatusPatch struct {
	ID     string             `json:"id"`
	Status models.LeaveStatus `json:"status"`
}

type subResponsePatch struct {
	ID           string           `json:"id"`
	Status       models.SubStatus `json:"status"`
	RejectReason string           `json:"rejectReason,omitempty"`
}

// --- Teachers ---

// AddTeacher assigns a fresh id and inserts the record.
func (s *Store) AddTeacher(t models.Teacher) models.Teacher {
	t.ID = s.newID()
	s.mu.Lock()
	s.state.Teachers = append(s.state.Teachers, t)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionTeachers, Record: t, ID: t.ID})
	s.notify()
	return t
}

// UpdateTeacher replaces the record matching t.ID. Unknown ids are a
// local no-op; the remote update is forwarded either way and ignored
// there too.
func (s *Store) UpdateTeacher(t models.Teacher) {
	s.mu.Lock()
	for i := range s.state.Teachers {
		if s.state.Teachers[i].ID == t.ID {
			s.state.Teachers[i] = t
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionTeachers, Record: t, ID: t.ID})
	s.notify()
}

// DeleteTeacher removes the record. Schedules and assignments that
// reference the teacher are left in place; consumers resolve the
// dangling reference to a blank.
func (s *Store) DeleteTeacher(id string) {
	s.mu.Lock()
	s.state.Teachers = deleteByID(s.state.Teachers, id, func(t models.Teacher) string { return t.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionTeachers, ID: id})
	s.notify()
}

// --- Subjects ---

func (s *Store) AddSubject(subj models.Subject) models.Subject {
	subj.ID = s.newID()
	s.mu.Lock()
	s.state.Subjects = append(s.state.Subjects, subj)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionSubjects, Record: subj, ID: subj.ID})
	s.notify()
	return subj
}

func (s *Store) UpdateSubject(subj models.Subject) {
	s.mu.Lock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID == subj.ID {
			s.state.Subjects[i] = subj
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionSubjects, Record: subj, ID: subj.ID})
	s.notify()
}

func (s *Store) DeleteSubject(id string) {
	s.mu.Lock()
	s.state.Subjects = deleteByID(s.state.Subjects, id, func(v models.Subject) string { return v.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionSubjects, ID: id})
	s.notify()
}

// --- Classes ---

func (s *Store) AddClass(c models.ClassRoom) models.ClassRoom {
	c.ID = s.newID()
	s.mu.Lock()
	s.state.Classes = append(s.state.Classes, c)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionClasses, Record: c, ID: c.ID})
	s.notify()
	return c
}

func (s *Store) UpdateClass(c models.ClassRoom) {
	s.mu.Lock()
	for i := range s.state.Classes {
		if s.state.Classes[i].ID == c.ID {
			s.state.Classes[i] = c
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionClasses, Record: c, ID: c.ID})
	s.notify()
}

func (s *Store) DeleteClass(id string) {
	s.mu.Lock()
	s.state.Classes = deleteByID(s.state.Classes, id, func(v models.ClassRoom) string { return v.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionClasses, ID: id})
	s.notify()
}

// --- Time slots ---

// AddTimeSlot inserts a slot and keeps the collection ordered by period
// number.
func (s *Store) AddTimeSlot(slot models.TimeSlot) models.TimeSlot {
	slot.ID = s.newID()
	s.mu.Lock()
	s.state.TimeSlots = append(s.state.TimeSlots, slot)
	sortTimeSlots(s.state.TimeSlots)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionTimeSlots, Record: slot, ID: slot.ID})
	s.notify()
	return slot
}

func (s *Store) UpdateTimeSlot(slot models.TimeSlot) {
	s.mu.Lock()
	for i := range s.state.TimeSlots {
		if s.state.TimeSlots[i].ID == slot.ID {
			s.state.TimeSlots[i] = slot
			break
		}
	}
	sortTimeSlots(s.state.TimeSlots)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionTimeSlots, Record: slot, ID: slot.ID})
	s.notify()
}

func (s *Store) DeleteTimeSlot(id string) {
	s.mu.Lock()
	s.state.TimeSlots = deleteByID(s.state.TimeSlots, id, func(v models.TimeSlot) string { return v.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionTimeSlots, ID: id})
	s.notify()
}

// --- Schedules ---

// UpsertSchedule inserts a timetable entry after removing any entry for
// the same (timeSlotId, dayOfWeek, teacherId). A teacher cannot teach
// two classes at once; the invariant is enforced by overwrite, not
// rejection. References to missing classes or subjects are tolerated.
func (s *Store) UpsertSchedule(item models.ScheduleItem) models.ScheduleItem {
	if item.ID == "" {
		item.ID = s.newID()
	}
	s.mu.Lock()
	kept := s.state.Schedules[:0]
	for _, existing := range s.state.Schedules {
		if existing.TimeSlotID == item.TimeSlotID && existing.DayOfWeek == item.DayOfWeek && existing.TeacherID == item.TeacherID {
			continue
		}
		kept = append(kept, existing)
	}
	s.state.Schedules = append(kept, item)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionSchedules, Record: item, ID: item.ID})
	s.notify()
	return item
}

// DeleteSchedule removes the entry unconditionally; absent ids are a
// no-op.
func (s *Store) DeleteSchedule(id string) {
	s.mu.Lock()
	s.state.Schedules = deleteByID(s.state.Schedules, id, func(v models.ScheduleItem) string { return v.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionSchedules, ID: id})
	s.notify()
}

// --- Leave requests ---

// AddLeave assigns a fresh id, forces status PENDING and normalizes the
// date before inserting.
func (s *Store) AddLeave(req models.LeaveRequest) models.LeaveRequest {
	req.ID = s.newID()
	req.Status = models.LeavePending
	req.Date = dates.Normalize(req.Date)
	if req.PeriodNumbers == nil {
		req.PeriodNumbers = models.PeriodList{}
	}
	s.mu.Lock()
	s.state.Leaves = append(s.state.Leaves, req)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionLeaves, Record: req, ID: req.ID})
	s.notify()
	return req
}

// UpdateLeave replaces the full record. Editing does not reset status;
// re-opening a decided request is implicit.
func (s *Store) UpdateLeave(req models.LeaveRequest) {
	req.Date = dates.Normalize(req.Date)
	s.mu.Lock()
	for i := range s.state.Leaves {
		if s.state.Leaves[i].ID == req.ID {
			s.state.Leaves[i] = req
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionLeaves, Record: req, ID: req.ID})
	s.notify()
}

// DeleteLeave removes the request and cascades to every substitute
// assignment referencing it. Each cascade deletion goes through the
// regular delete path and issues its own remote command.
func (s *Store) DeleteLeave(id string) {
	s.mu.Lock()
	s.state.Leaves = deleteByID(s.state.Leaves, id, func(v models.LeaveRequest) string { return v.ID })
	var orphaned []string
	for _, sub := range s.state.Subs {
		if sub.LeaveRequestID == id {
			orphaned = append(orphaned, sub.ID)
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionLeaves, ID: id})

	for _, subID := range orphaned {
		s.DeleteSub(subID)
	}
	s.notify()
}

// ApproveLeave marks the request APPROVED, making it actionable for
// substitution.
func (s *Store) ApproveLeave(id string) {
	s.setLeaveStatus(id, models.LeaveApproved)
}

// RejectLeave marks the request REJECTED.
func (s *Store) RejectLeave(id string) {
	s.setLeaveStatus(id, models.LeaveRejected)
}

func (s *Store) setLeaveStatus(id string, status models.LeaveStatus) {
	s.mu.Lock()
	for i := range s.state.Leaves {
		if s.state.Leaves[i].ID == id {
			s.state.Leaves[i].Status = status
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionLeaves, Record: leaveStatusPatch{ID: id, Status: status}, ID: id})
	s.notify()
}

// --- Substitute assignments ---

// AddSub assigns a fresh id and forces status REQUESTED, overriding
// whatever the caller supplied. Rejected assignments for the same
// (leaveRequestId, periodNumber) slot may already exist; the new record
// simply coexists with them.
func (s *Store) AddSub(sub models.SubstituteAssignment) models.SubstituteAssignment {
	sub.ID = s.newID()
	sub.Status = models.SubRequested
	sub.Date = dates.Normalize(sub.Date)
	s.mu.Lock()
	s.state.Subs = append(s.state.Subs, sub)
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpCreate, Collection: remote.CollectionSubs, Record: sub, ID: sub.ID})
	s.notify()
	return sub
}

// UpdateSub replaces the full record; callers re-assigning a substitute
// reset the status to REQUESTED themselves.
func (s *Store) UpdateSub(sub models.SubstituteAssignment) {
	sub.Date = dates.Normalize(sub.Date)
	s.mu.Lock()
	for i := range s.state.Subs {
		if s.state.Subs[i].ID == sub.ID {
			s.state.Subs[i] = sub
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionSubs, Record: sub, ID: sub.ID})
	s.notify()
}

// DeleteSub removes the assignment; absent ids are a no-op.
func (s *Store) DeleteSub(id string) {
	s.mu.Lock()
	s.state.Subs = deleteByID(s.state.Subs, id, func(v models.SubstituteAssignment) string { return v.ID })
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpDelete, Collection: remote.CollectionSubs, ID: id})
	s.notify()
}

// RespondToSub records the assignee's answer. There is no automatic
// follow-up on rejection; a human re-runs the resolver and creates a
// fresh assignment.
func (s *Store) RespondToSub(id string, status models.SubStatus, reason string) {
	s.mu.Lock()
	for i := range s.state.Subs {
		if s.state.Subs[i].ID == id {
			s.state.Subs[i].Status = status
			s.state.Subs[i].RejectReason = reason
			break
		}
	}
	s.mu.Unlock()
	s.persist(outbox.Command{Op: outbox.OpUpdate, Collection: remote.CollectionSubs, Record: subResponsePatch{ID: id, Status: status, RejectReason: reason}, ID: id})
	s.notify()
}

func deleteByID[T any](items []T, id string, idOf func(T) string) []T {
	kept := items[:0]
	for _, item := range items {
		if idOf(item) == id {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
