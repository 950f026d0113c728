package api

import (
	"github.com/pageza/recipe-catalog/internal/catalog"
)

// ViewResponse is a computed page plus the state it was computed for.
type ViewResponse struct {
	catalog.View
	State catalog.State `json:"state"`
}

// SessionResponse is returned when a session is created or changed.
type SessionResponse struct {
	ID    string        `json:"id"`
	State catalog.State `json:"state"`
	View  *catalog.View `json:"view,omitempty"`
}

// ImageResponse carries the public URL of an uploaded image.
type ImageResponse struct {
	URL string `json:"url"`
}
