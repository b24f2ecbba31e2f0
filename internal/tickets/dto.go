package tickets

// CreateTicketRequest is the payload for opening a ticket. The submitter is
// taken from the authenticated principal, never from the body.
type CreateTicketRequest struct {
	Subject     string `json:"subject" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,max=4000"`
	Priority    string `json:"priority" validate:"required"`
}

// UpdateTicketRequest is the payload for editing subject, description,
// priority or status.
type UpdateTicketRequest struct {
	Subject     string `json:"subject" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,max=4000"`
	Priority    string `json:"priority" validate:"required"`
	Status      string `json:"status" validate:"required"`
}

// AssignTicketRequest names the agent taking the ticket.
type AssignTicketRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}
