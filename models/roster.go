package models

// EmailContact is one row of the email roster. The email is extracted with
// a loose pattern, so it may have been embedded in surrounding text in the
// source file.
type EmailContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
