package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// AssetStore reads previously uploaded bytes by storage key.
type AssetStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// Normalizer converts a client-supplied image reference into a form the
// external services can consume. Remote URLs and data URIs pass through
// unchanged; anything else is treated as an upload-store key whose bytes are
// re-encoded as a data URI, since local handles mean nothing to third parties.
type Normalizer struct {
	store AssetStore
}

// NewNormalizer builds a Normalizer backed by the given upload store.
func NewNormalizer(store AssetStore) *Normalizer {
	return &Normalizer{store: store}
}

// Normalize returns a durable, service-consumable representation of ref.
// Failure to read local bytes yields an *AssetReadError; callers abort the
// pipeline rather than submit a broken job.
func (n *Normalizer) Normalize(ctx context.Context, ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", &AssetReadError{Ref: ref, Err: fmt.Errorf("empty image reference")}
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") || strings.HasPrefix(trimmed, "data:") {
		return trimmed, nil
	}
	if n.store == nil {
		return "", &AssetReadError{Ref: ref, Err: fmt.Errorf("no upload store configured")}
	}
	data, err := n.store.Read(ctx, trimmed)
	if err != nil {
		return "", &AssetReadError{Ref: ref, Err: err}
	}
	if len(data) == 0 {
		return "", &AssetReadError{Ref: ref, Err: fmt.Errorf("empty file")}
	}
	mime := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
