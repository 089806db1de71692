package domain

// User represents the account holder as returned by the notes backend.
// The value is replaced wholesale on every successful auth operation and
// never partially mutated.
type User struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dob"`
	CreatedAt   string `json:"createdAt"`
}

// Note represents a single note owned by the authenticated user.
type Note struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
