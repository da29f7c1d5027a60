// Package flavor produces display-only prose for items and bosses. Generation
// is asynchronous and best-effort: gameplay never waits on it, and every text
// has a static fallback.
package flavor

import "context"

// ItemPrompt carries the facts a source may weave into an item description.
type ItemPrompt struct {
	Name     string
	Kind     string
	StatLine string
}

// Source produces flavor text. Implementations may be slow; callers bound
// them with the context.
type Source interface {
	DescribeItem(ctx context.Context, prompt ItemPrompt) (string, error)
	BossTaunt(ctx context.Context) (string, error)
}
