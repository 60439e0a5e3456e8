package domain

// Profile is the instructor's own account record.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Bio       string
	Avatar    string // URL
}
