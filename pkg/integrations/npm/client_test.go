package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/pkgaudit/pkgaudit/pkg/cache"
)

func TestExtractPackageInfo(t *testing.T) {
	doc := &RegistryDocument{
		Name:        "left-pad",
		Description: "pad a string",
		HomePage:    "https://example.com",
		Repository:  map[string]any{"url": "git+https://github.com/user/left-pad.git"},
		Maintainers: []Maintainer{{Name: "alice", Email: "alice@gmail.com"}},
		DistTags:    distTags{Latest: "1.3.0"},
		Time: map[string]string{
			"created":  "2015-01-01T00:00:00.000Z",
			"modified": "2016-01-01T00:00:00.000Z",
			"1.3.0":    "2016-01-01T00:00:00.000Z",
		},
		Versions: map[string]versionDetails{
			"1.3.0": {
				Description:     "pad a string",
				License:         "MIT",
				Dependencies:    map[string]string{"dep-a": "^1.0.0"},
				DevDependencies: map[string]string{"dev-a": "^2.0.0"},
				Scripts:         map[string]string{"postinstall": "node fetch.js"},
				Dist:            distInfo{Tarball: "https://registry.npmjs.org/left-pad/-/left-pad-1.3.0.tgz"},
			},
		},
	}

	info := ExtractPackageInfo(doc)

	if info.Name != "left-pad" {
		t.Errorf("Name = %q, want %q", info.Name, "left-pad")
	}
	if info.Version != "1.3.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.3.0")
	}
	if len(info.Versions) != 1 {
		t.Errorf("Versions = %v, want 1 entry", info.Versions)
	}
	if info.TarballURL == "" {
		t.Error("TarballURL should not be empty")
	}
	if info.Scripts["postinstall"] == "" {
		t.Error("Scripts should carry postinstall hook")
	}
	if info.License != "MIT" {
		t.Errorf("License = %q, want MIT", info.License)
	}
	if len(info.Maintainers) != 1 || info.Maintainers[0].Email != "alice@gmail.com" {
		t.Errorf("Maintainers = %v", info.Maintainers)
	}
	if info.RepositoryURL() != "https://github.com/user/left-pad" {
		t.Errorf("RepositoryURL() = %q", info.RepositoryURL())
	}
}

func TestExtractPackageInfoMissingLicenseDefaultsToUnknown(t *testing.T) {
	doc := &RegistryDocument{
		DistTags: distTags{Latest: "1.0.0"},
		Versions: map[string]versionDetails{"1.0.0": {}},
	}

	info := ExtractPackageInfo(doc)
	if info.License != "unknown" {
		t.Errorf("License = %q, want unknown", info.License)
	}
}

func TestExtractPackageInfoMissingLatest(t *testing.T) {
	doc := &RegistryDocument{Name: "ghost"}
	info := ExtractPackageInfo(doc)

	if info.Version != "unknown" {
		t.Errorf("Version = %q, want %q", info.Version, "unknown")
	}
}

func TestExtractPackageInfoVersionLevelRepoOverridesDocLevel(t *testing.T) {
	doc := &RegistryDocument{
		Repository: "https://github.com/old/repo",
		DistTags:   distTags{Latest: "2.0.0"},
		Versions: map[string]versionDetails{
			"2.0.0": {Repository: "https://github.com/new/repo"},
		},
	}
	info := ExtractPackageInfo(doc)

	if info.RepositoryURL() != "https://github.com/new/repo" {
		t.Errorf("RepositoryURL() = %q, want version-level override", info.RepositoryURL())
	}
}

func TestFetchMetadataNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(nil, time.Hour)
	client.baseURL = server.URL

	_, err := client.FetchMetadata(context.Background(), "nonexistent", false)
	if err == nil {
		t.Fatal("FetchMetadata() should error for 404")
	}
}

func TestFetchMetadataSuccess(t *testing.T) {
	doc := RegistryDocument{
		Name:     "express",
		DistTags: distTags{Latest: "4.18.2"},
		Versions: map[string]versionDetails{"4.18.2": {Description: "fast, unopinionated web framework"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(doc)
	}))
	defer server.Close()

	c, _ := cache.NewFileCache(t.TempDir())
	defer c.Close()

	client := NewClient(c, time.Hour)
	client.baseURL = server.URL

	got, err := client.FetchMetadata(context.Background(), "express", false)
	if err != nil {
		t.Fatalf("FetchMetadata() error: %v", err)
	}
	if got.Name != "express" {
		t.Errorf("Name = %q, want express", got.Name)
	}
}

func TestNewClientWithOptionsDefaults(t *testing.T) {
	client := NewClientWithOptions(nil, time.Hour, Options{})
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}
}

func TestNewClientWithOptionsOverridesBaseURL(t *testing.T) {
	client := NewClientWithOptions(nil, time.Hour, Options{BaseURL: "https://example.com/registry"})
	if client.baseURL != "https://example.com/registry" {
		t.Errorf("baseURL = %q, want override", client.baseURL)
	}
}

func TestDownloadArchiveEmptyURL(t *testing.T) {
	client := NewClient(nil, time.Hour)
	if ok := client.DownloadArchive(context.Background(), "", t.TempDir()+"/out.tgz"); ok {
		t.Error("DownloadArchive() should return false for empty URL")
	}
}

func TestDownloadArchiveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake tarball bytes"))
	}))
	defer server.Close()

	client := NewClient(nil, time.Hour)
	dest := t.TempDir() + "/out.tgz"

	if ok := client.DownloadArchive(context.Background(), server.URL, dest); !ok {
		t.Fatal("DownloadArchive() should succeed")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(data) != "fake tarball bytes" {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestDownloadArchiveFailureLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(nil, time.Hour)
	dest := t.TempDir() + "/out.tgz"

	if ok := client.DownloadArchive(context.Background(), server.URL, dest); ok {
		t.Fatal("DownloadArchive() should return false for 500")
	}
	if _, err := os.Stat(dest); err == nil {
		t.Error("DownloadArchive() should not leave a partial file on failure")
	}
}

func TestExtractFieldHelper(t *testing.T) {
	if got := extractField("MIT", "type"); got != "MIT" {
		t.Errorf("extractField(string) = %q, want MIT", got)
	}
	if got := extractField(map[string]any{"type": "Apache-2.0"}, "type"); got != "Apache-2.0" {
		t.Errorf("extractField(map) = %q, want Apache-2.0", got)
	}
	if got := extractField(nil, "type"); got != "" {
		t.Errorf("extractField(nil) = %q, want empty", got)
	}
}
