package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post written by a user
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"size:50;not null" json:"title"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`

	// Relationships
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags []Tag `gorm:"many2many:post_tags;" json:"tags,omitempty"`
}

// SetTags replaces the post's tag set with the given tags.
// Join rows for tags not in the set are removed.
func (p *Post) SetTags(db *gorm.DB, tags []Tag) error {
	return db.Model(p).Association("Tags").Replace(tags)
}
