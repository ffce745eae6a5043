package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/pkg/apperror"
)

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// PortfolioHit is one search result.
type PortfolioHit struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"ownerId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	SectionTypes []string `json:"sectionTypes"`
	IsExample    bool     `json:"isExample"`
}

// PortfolioIndexer keeps a search index of portfolios.
type PortfolioIndexer interface {
	IndexPortfolio(ctx context.Context, p *entity.Portfolio) error
	DeletePortfolio(ctx context.Context, id primitive.ObjectID) error
	SearchPortfolios(ctx context.Context, q string, size int) ([]PortfolioHit, error)
}

// fromRepo maps repository errors onto the apperror taxonomy.
func fromRepo(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	if apperror.KindOf(err) != "" {
		return err
	}
	return apperror.Wrap(err, apperror.KindPersistence, "database error")
}

func logEntry(l *logrus.Logger) *logrus.Entry {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return logrus.NewEntry(l)
}
