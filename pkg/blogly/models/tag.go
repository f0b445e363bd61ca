package models

import "gorm.io/gorm"

// Tag represents a tag that can be applied to posts
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	// Relationships
	Posts []Post `gorm:"many2many:post_tags;" json:"posts,omitempty"`
}

// ResolveTags loads the tags matching the given ids. Ids with no matching
// tag are dropped silently, not treated as an error.
func ResolveTags(db *gorm.DB, ids []uint) ([]Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []Tag
	if err := db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
