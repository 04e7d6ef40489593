package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	files map[string][]byte
	err   error
}

func (f *fakeStore) Read(ctx context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.files[key]
	if !ok {
		return nil, errors.New("no such file")
	}
	return data, nil
}

func TestNormalizePassesThroughRemoteURL(t *testing.T) {
	n := NewNormalizer(&fakeStore{})
	for _, ref := range []string{
		"https://cdn.example/avatar.png",
		"http://cdn.example/avatar.png",
		"data:image/png;base64,AAAA",
	} {
		got, err := n.Normalize(context.Background(), ref)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", ref, err)
		}
		if got != ref {
			t.Fatalf("Normalize(%q) = %q, want pass-through", ref, got)
		}
	}
}

func TestNormalizeEncodesLocalUpload(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}
	n := NewNormalizer(&fakeStore{files: map[string][]byte{"avatar.png": pngHeader}})

	got, err := n.Normalize(context.Background(), "avatar.png")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("Normalize = %q, want data URI with image/png content type", got)
	}
}

func TestNormalizeReadFailure(t *testing.T) {
	n := NewNormalizer(&fakeStore{err: errors.New("disk gone")})

	_, err := n.Normalize(context.Background(), "avatar.png")
	var readErr *AssetReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error type = %T, want *AssetReadError", err)
	}
	if readErr.Ref != "avatar.png" {
		t.Fatalf("Ref = %q, want %q", readErr.Ref, "avatar.png")
	}
}

func TestNormalizeEmptyRef(t *testing.T) {
	n := NewNormalizer(&fakeStore{})
	if _, err := n.Normalize(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty reference")
	}
}
