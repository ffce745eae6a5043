package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         []byte
}

func fakeES(t *testing.T, status int, reply string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var (
		mu  sync.Mutex
		got []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recorded{r.Method, r.URL.Path, b})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &got
}

func TestIndexPortfolioSendsDistinctSectionTypes(t *testing.T) {
	es, got := fakeES(t, http.StatusCreated, `{"result":"created"}`)
	x := NewPortfolioIndex(es, "portfolios", nil)
	p := &entity.Portfolio{
		ID:      primitive.NewObjectID(),
		OwnerID: primitive.NewObjectID(),
		Title:   "Backend work",
		Sections: []entity.Section{
			{ID: primitive.NewObjectID(), Type: entity.SectionWork},
			{ID: primitive.NewObjectID(), Type: entity.SectionProject},
			{ID: primitive.NewObjectID(), Type: entity.SectionWork},
		},
	}
	require.NoError(t, x.IndexPortfolio(context.Background(), p))
	require.Len(t, *got, 1)

	req := (*got)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/portfolios/_doc/"+p.ID.Hex(), req.path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(req.body, &doc))
	assert.Equal(t, []any{"work", "project"}, doc["sectionTypes"])
}

func TestSearchPortfolios(t *testing.T) {
	es, got := fakeES(t, http.StatusOK, `{"hits":{"hits":[{"_id":"1","_source":{"id":"1","title":"Data science","sectionTypes":["education"]}}]}}`)
	x := NewPortfolioIndex(es, "portfolios", nil)

	hits, err := x.SearchPortfolios(context.Background(), "data", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Data science", hits[0].Title)
	assert.True(t, strings.HasSuffix((*got)[0].path, "/_search"))
	assert.Contains(t, string((*got)[0].body), `"size":10`)
}

func TestSearchMissingIndexIsEmpty(t *testing.T) {
	es, _ := fakeES(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`)
	hits, err := NewPortfolioIndex(es, "portfolios", nil).SearchPortfolios(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteIgnoresMissingDocument(t *testing.T) {
	es, _ := fakeES(t, http.StatusNotFound, `{"result":"not_found"}`)
	assert.NoError(t, NewPortfolioIndex(es, "portfolios", nil).DeletePortfolio(context.Background(), primitive.NewObjectID()))
}
