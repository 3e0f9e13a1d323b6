package sc2ranks

import (
	"context"
)

// API defines the interface for sc2ranks operations
type API interface {
	// Search looks up characters by name in a region
	Search(ctx context.Context, name string, region Region, searchType SearchType, offset *int) (*Response, error)

	// GetCharacter fetches a character's profile, optionally with team data
	GetCharacter(ctx context.Context, name string, region Region, ref CharacterRef, details CharacterDetails) (*Response, error)

	// MaximumBonusPool returns the global bonus pool
	MaximumBonusPool(ctx context.Context) (*Response, error)
}

var _ API = (*Client)(nil)
