package models

import "time"

// BlogPost is a published article
type BlogPost struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Slug        string      `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Title       string      `gorm:"type:text;not null" json:"title"`
	Excerpt     string      `gorm:"type:text" json:"excerpt"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Author      string      `gorm:"type:text" json:"author"`
	Tags        StringArray `gorm:"not null;default:'{}'" json:"tags"`
	Featured    bool        `gorm:"not null;default:false;index" json:"featured"`
	ImageURL    *string     `gorm:"column:image_url;type:text" json:"imageUrl"`
	PublishedAt time.Time   `gorm:"index" json:"publishedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
}
