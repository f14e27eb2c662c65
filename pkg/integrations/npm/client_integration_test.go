//go:build integration

package npm

import (
	"context"
	"testing"
	"time"
)

func TestFetchMetadata_Integration(t *testing.T) {
	client := NewClient(nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"express", "express", false},
		{"lodash", "lodash", false},
		{"nonexistent", "this-package-should-not-exist-12345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := client.FetchMetadata(ctx, tt.pkg, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("FetchMetadata(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				info := ExtractPackageInfo(doc)
				if info.Name == "" {
					t.Error("package name should not be empty")
				}
				if info.Version == "" || info.Version == "unknown" {
					t.Error("package version should be resolved")
				}
			}
		})
	}
}

func TestFetchMetadataWithDeps_Integration(t *testing.T) {
	client := NewClient(nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	doc, err := client.FetchMetadata(ctx, "express", false)
	if err != nil {
		t.Fatalf("FetchMetadata(express) error: %v", err)
	}
	info := ExtractPackageInfo(doc)

	if len(info.Dependencies) == 0 {
		t.Error("express should have dependencies")
	}
	if info.TarballURL == "" {
		t.Error("express should have a tarball URL")
	}
}

func TestDownloadArchive_Integration(t *testing.T) {
	client := NewClient(nil, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	doc, err := client.FetchMetadata(ctx, "express", false)
	if err != nil {
		t.Fatalf("FetchMetadata(express) error: %v", err)
	}
	info := ExtractPackageInfo(doc)

	dest := t.TempDir() + "/archive.tgz"
	if ok := client.DownloadArchive(ctx, info.TarballURL, dest); !ok {
		t.Error("DownloadArchive() should succeed for a real tarball URL")
	}
}
