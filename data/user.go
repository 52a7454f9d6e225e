package data

// User represents a user of the system
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Pass      string `json:"pass"`
}

// Auth is the response to a successful authentication request
type Auth struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
