package v1alpha1

import "time"

// ContentType identifies how a content item's payload is rendered
type ContentType string

const (
	// ContentTypeText is an inline text payload
	ContentTypeText ContentType = "text"
	// ContentTypeImage is an image referenced by URL
	ContentTypeImage ContentType = "image"
	// ContentTypeVideo is a video referenced by URL
	ContentTypeVideo ContentType = "video"
)

// ContentItem is a single piece of displayable content owned by an account
type ContentItem struct {
	// ID uniquely identifies this item
	ID string `json:"id"`
	// OwnerID is the owning account
	OwnerID string `json:"ownerId,omitempty"`
	// Title is a human-readable label
	Title string `json:"title"`
	// Type selects the payload kind
	Type ContentType `json:"type"`
	// Text is the inline payload for text items
	Text string `json:"text,omitempty"`
	// URL is the media reference for image and video items
	URL string `json:"url,omitempty"`
	// DurationSeconds is how long to show the item (0 means client default)
	DurationSeconds int `json:"durationSeconds,omitempty"`
	// Active gates whether the item may appear in any playlist
	Active bool `json:"active"`
}

// Binding links a content item to a device with ordering
type Binding struct {
	// ID uniquely identifies this binding
	ID string `json:"id"`
	// DeviceID is the target device
	DeviceID string `json:"deviceId"`
	// ContentID references the bound content item
	ContentID string `json:"contentId"`
	// Order defines the playlist sequence, ascending
	Order int `json:"order"`
	// Active gates whether the binding contributes to the playlist
	Active bool `json:"active"`
	// ActiveFrom optionally schedules when the binding becomes active
	ActiveFrom *time.Time `json:"activeFrom,omitempty"`
	// ActiveUntil optionally schedules when the binding expires
	ActiveUntil *time.Time `json:"activeUntil,omitempty"`
}

// InWindow reports whether the binding's schedule window covers t.
// A binding with no window is always in window.
func (b *Binding) InWindow(t time.Time) bool {
	if b.ActiveFrom != nil && t.Before(*b.ActiveFrom) {
		return false
	}
	if b.ActiveUntil != nil && !t.Before(*b.ActiveUntil) {
		return false
	}
	return true
}

// BindingList is the directory of bindings for one device
type BindingList struct {
	// Items is the list of Binding objects
	Items []Binding `json:"items"`
}

// ContentItemList is a list of content items
type ContentItemList struct {
	// Items is the list of ContentItem objects
	Items []ContentItem `json:"items"`
}
