package models

import "github.com/lib/pq"

// WardrobeItem is one digital record for a physical clothing or accessory
// piece owned by a user. The styling pipeline only reads these.
type WardrobeItem struct {
	JsonModel
	Name        string         `json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	Category    string         `json:"category"` // e.g. T-Shirt, Jeans, Sneakers, Watch
	Color       string         `json:"color"`
	Season      string         `json:"season"` // Summer, Winter, Spring, Fall, All Season
	StyleTags   pq.StringArray `gorm:"type:text[]" json:"style_tags"`
	Owner       UserAccount    `json:"-"`
	OwnerID     uint           `json:"-"`
	// storage key of the item photo, presigned on read
	ImageURL *string `json:"image_url"`
	Status   string  `json:"status"` // temporary, in_closet
}
