package models

// ClassRoom represents a homeroom class and its advisor.
type ClassRoom struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StudentCount int    `json:"studentCount"`
	AdvisorID    string `json:"advisorId"`
}
