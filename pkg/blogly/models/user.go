package models

// DefaultImageURL is the placeholder profile image used when a user is
// created without one.
const DefaultImageURL = "default_profile.jpg"

// User represents an author
type User struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	FirstName string `gorm:"size:50;not null;index" json:"first_name"`
	LastName  string `gorm:"size:50;not null;index" json:"last_name"`
	ImageURL  string `gorm:"size:450;default:'default_profile.jpg'" json:"image_url"`

	// Relationships
	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// FullName returns the user's display name
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
