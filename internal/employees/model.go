package employees

import "time"

// Employee represents a directory record. UserID links the record to its
// user account and ManagerUserID names the supervisor's user account; both
// exist purely for access attribution.
type Employee struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Department    string    `json:"department"`
	Title         string    `json:"title"`
	UserID        *int64    `json:"userId,omitempty"`
	ManagerUserID *int64    `json:"managerUserId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
