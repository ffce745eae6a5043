package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// PortfolioIndex keeps portfolio titles, descriptions and section types
// searchable in Elasticsearch.
type PortfolioIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewPortfolioIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *PortfolioIndex {
	return &PortfolioIndex{ES: es, Index: index, Logger: logger}
}

func document(p *entity.Portfolio) application.PortfolioHit {
	types := make([]string, 0, len(p.Sections))
	seen := map[entity.SectionType]bool{}
	for _, s := range p.Sections {
		if !seen[s.Type] {
			seen[s.Type] = true
			types = append(types, string(s.Type))
		}
	}
	return application.PortfolioHit{
		ID:           p.ID.Hex(),
		OwnerID:      p.OwnerID.Hex(),
		Title:        p.Title,
		Description:  p.Description,
		SectionTypes: types,
		IsExample:    p.IsExample,
	}
}

func (x *PortfolioIndex) IndexPortfolio(ctx context.Context, p *entity.Portfolio) error {
	b, err := json.Marshal(document(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID.Hex(), Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index portfolio %s: %s", p.ID.Hex(), res.Status())
	}
	return nil
}

// DeletePortfolio removes a document. A missing document is not an error.
func (x *PortfolioIndex) DeletePortfolio(ctx context.Context, id primitive.ObjectID) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id.Hex()}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete portfolio %s: %s", id.Hex(), res.Status())
	}
	return nil
}

// SearchPortfolios runs a multi_match over title (boosted), description and
// section types.
func (x *PortfolioIndex) SearchPortfolios(ctx context.Context, q string, size int) ([]application.PortfolioHit, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "sectionTypes"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		if res.StatusCode == 404 {
			// index not created yet
			return []application.PortfolioHit{}, nil
		}
		return nil, fmt.Errorf("search portfolios: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source application.PortfolioHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.PortfolioHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	if x.Logger != nil {
		x.Logger.WithFields(logrus.Fields{"q": q, "hits": len(out)}).Debug("portfolio search")
	}
	return out, nil
}

var _ application.PortfolioIndexer = (*PortfolioIndex)(nil)
