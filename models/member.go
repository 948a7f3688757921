package models

// Member is a reference to a user from the users directory. The directory
// owns the account; tasks only store this denormalized snapshot.
type Member struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// CaseSummary is the display-only view of a case from the cases directory.
type CaseSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
