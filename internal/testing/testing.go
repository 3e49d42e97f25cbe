// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"maree/internal/models"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	Tracks []models.Track
	Err    error
	Calls  int
}

func (m *MockCatalog) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks, nil
}

// MockPlaylist is a test double for [services.Playlist]
type MockPlaylist struct {
	Snapshot string
	Err      error
	URIs     []string
}

func (m *MockPlaylist) AddTrack(ctx context.Context, trackURI string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.URIs = append(m.URIs, trackURI)
	return m.Snapshot, nil
}

// MockGuestDirectory is a call-counting test double for [tasks.GuestDirectory]
type MockGuestDirectory struct {
	Guests      []models.Guest
	Group       []models.Guest
	SearchCalls int
	GroupCalls  int
}

func (m *MockGuestDirectory) SearchByName(ctx context.Context, name string) ([]models.Guest, error) {
	m.SearchCalls++
	return m.Guests, nil
}

func (m *MockGuestDirectory) ListByGroup(ctx context.Context, group string) ([]models.Guest, error) {
	m.GroupCalls++
	return m.Group, nil
}

// MockResponseStore is a call-counting test double for [tasks.ResponseStore]
type MockResponseStore struct {
	Err    error
	Stored []*models.GuestResponse
}

func (m *MockResponseStore) Upsert(ctx context.Context, resp *models.GuestResponse) error {
	if m.Err != nil {
		return m.Err
	}
	m.Stored = append(m.Stored, resp)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
