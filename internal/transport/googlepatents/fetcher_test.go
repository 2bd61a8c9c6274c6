package googlepatents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestParsePage(t *testing.T) {
	p, err := ParsePage("US1A", strings.NewReader(string(fixture(t, "US1A.html"))))
	require.NoError(t, err)

	assert.Equal(t, "US1A", p.Number)
	assert.Equal(t, "Plate fastener", p.Title)
	assert.Equal(t, "A method for fastening two plates using a threaded bolt.", p.Abstract)
	assert.True(t, strings.HasPrefix(p.Claims, "1. A method comprising aligning two plates."))
	assert.Contains(t, p.Claims, "tightening a bolt")
}

func TestParsePage_MissingFieldsDefaultEmpty(t *testing.T) {
	p, err := ParsePage("US2B", strings.NewReader(string(fixture(t, "no_abstract.html"))))
	require.NoError(t, err)

	assert.Equal(t, domain.Patent{Number: "US2B", Title: "Gear box"}, p)
}

func TestParsePage_EmptyDocument(t *testing.T) {
	p, err := ParsePage("US3C", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, domain.Patent{Number: "US3C"}, p)
}

func TestFetch(t *testing.T) {
	page := fixture(t, "US1A.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patent/US1A/en", r.URL.Path)
		assert.Equal(t, "patentsim-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL + "/", Timeout: 5 * time.Second, UserAgent: "patentsim-test"})
	p, err := f.Fetch(context.Background(), "US1A")
	require.NoError(t, err)
	assert.Equal(t, "Plate fastener", p.Title)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer server.Close()

	f := New(Config{BaseURL: server.URL})
	_, err := f.Fetch(context.Background(), "US404")
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	f := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := f.Fetch(context.Background(), "US1A")
	require.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestPageURL(t *testing.T) {
	f := New(Config{})
	assert.Equal(t, "https://patents.google.com/patent/US1234567B2/en", f.PageURL("US1234567B2"))
}
