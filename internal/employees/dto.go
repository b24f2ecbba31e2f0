package employees

// CreateEmployeeRequest is the payload for creating a directory record.
type CreateEmployeeRequest struct {
	FullName      string `json:"fullName" validate:"required,min=2,max=128"`
	Email         string `json:"email" validate:"required,email"`
	Department    string `json:"department" validate:"required,max=64"`
	Title         string `json:"title" validate:"max=64"`
	UserID        *int64 `json:"userId"`
	ManagerUserID *int64 `json:"managerUserId"`
}

// UpdateEmployeeRequest is the payload for updating a directory record.
type UpdateEmployeeRequest struct {
	FullName      string `json:"fullName" validate:"required,min=2,max=128"`
	Email         string `json:"email" validate:"required,email"`
	Department    string `json:"department" validate:"required,max=64"`
	Title         string `json:"title" validate:"max=64"`
	ManagerUserID *int64 `json:"managerUserId"`
}
