package contact

import "github.com/osa911/contactrelay/internal/contact"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ToSubmission converts the request body into the domain submission
func (r ContactRequest) ToSubmission() contact.Submission {
	return contact.Submission{
		Name:    r.Name,
		Email:   r.Email,
		Message: r.Message,
	}
}

// ContactResponse represents the response after a delivered submission
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"emailId"`
}
