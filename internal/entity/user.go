package entity

import "time"

type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	SavedBooks   []SavedBook `json:"saved_books"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (u User) BookCount() int { return len(u.SavedBooks) }

// HasBook reports whether bookID is already in the saved set.
func (u User) HasBook(bookID string) bool {
	for _, b := range u.SavedBooks {
		if b.BookID == bookID {
			return true
		}
	}
	return false
}
