package models

import (
	"time"
)

// Review holds one user's score and text for a title. The composite
// unique index enforces one review per (author, title) pair even when
// two inserts race past the handler-level existence check.
type Review struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Score    int    `gorm:"not null" json:"score"`
	AuthorID uint   `gorm:"not null;uniqueIndex:idx_review_author_title" json:"-"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	TitleID  uint   `gorm:"not null;uniqueIndex:idx_review_author_title;index" json:"title"`
	Title    Title  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	PubDate time.Time `gorm:"autoCreateTime" json:"pub_date"`
}
