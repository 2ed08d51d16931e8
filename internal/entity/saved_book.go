package entity

// SavedBook is a catalog book as stored in a user's library. BookID is the
// catalog volume id and is unique within one user's SavedBooks.
type SavedBook struct {
	BookID      string   `json:"book_id" bson:"bookId" validate:"required"`
	Title       string   `json:"title" bson:"title" validate:"required"`
	Authors     []string `json:"authors" bson:"authors"`
	Description string   `json:"description" bson:"description"`
	Image       string   `json:"image" bson:"image"`
	Link        string   `json:"link" bson:"link"`
}
