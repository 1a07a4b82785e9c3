package models

// Role identifies the access level of a teacher account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
)

// Teacher represents an instructor record.
type Teacher struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Username  string   `json:"username"`
	Role      Role     `json:"role"`
	Expertise []string `json:"expertise"`
	Phone     string   `json:"phone"`
	LineID    string   `json:"lineId"`
}

// HasExpertise reports whether the teacher is qualified for the subject.
func (t Teacher) HasExpertise(subjectID string) bool {
	for _, id := range t.Expertise {
		if id == subjectID {
			return true
		}
	}
	return false
}
