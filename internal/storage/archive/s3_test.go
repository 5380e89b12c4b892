// internal/storage/archive/s3_test.go
package archive

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/newthinker/riskattr/internal/core"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_Key(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "series/1.csv", "series/1.csv"},
		{"riskattr", "series/1.csv", "riskattr/series/1.csv"},
		{"riskattr/", "series/1.csv", "riskattr/series/1.csv"},
		{"/riskattr/", "series/1.csv", "riskattr/series/1.csv"},
	}

	for _, tt := range tests {
		s := &S3Storage{prefix: strings.Trim(tt.prefix, "/")}
		got := s.key(tt.path)
		if got != tt.want {
			t.Errorf("key(%q) with prefix %q = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
		if rel := s.relative(got); rel != tt.path {
			t.Errorf("relative(%q) = %q, want %q", got, rel, tt.path)
		}
	}
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(S3Config{Region: "us-east-1"})
	if !errors.Is(err, core.ErrConfigMissing) {
		t.Errorf("expected ErrConfigMissing, got %v", err)
	}

	s, err := NewS3(S3Config{Bucket: "quant", Region: "us-east-1", Endpoint: "http://localhost:9000", Prefix: "data/"})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	if s.String() != "s3://quant/data" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		{"head 404", &types.NotFound{}, true},
		{"other", errors.New("access denied"), false},
	}

	for _, tt := range tests {
		if got := isNotFound(tt.err); got != tt.want {
			t.Errorf("%s: isNotFound = %v, want %v", tt.name, got, tt.want)
		}
	}
}
