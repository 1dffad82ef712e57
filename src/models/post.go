package models

import (
	"ngocms/src/types"
	"time"
)

type Post struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Kind        types.ContentKind `gorm:"default:'post';index" json:"kind,omitempty"`
	Body        string            `json:"body,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	AuthorID    uint              `json:"author_id,omitempty"`
	PublishedAt *time.Time        `json:"published_at,omitempty"`

	Author User `gorm:"foreignKey:author_id" json:"-"`

	types.Timestamps
}
