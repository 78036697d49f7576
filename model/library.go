package model

import (
	"context"
	"encoding/json"
)

// Library is a remote store of items whose chapters can be read and replaced.
type Library interface {
	GetItem(ctx context.Context, itemID string) (*Item, error)
	UpdateChapters(ctx context.Context, itemID string, chapters []Chapter) (json.RawMessage, error)
}
