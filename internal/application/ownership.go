package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/pkg/apperror"
)

// Ownership keeps each user's active-portfolio pointer consistent with the
// portfolios that exist. Portfolio creation and removal both go through it.
type Ownership struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewOwnership(users repo.UserRepository, logger *logrus.Logger) *Ownership {
	return &Ownership{Users: users, Logger: logger}
}

// PortfolioCreated makes portfolioID active when the owner has none yet.
// The check and the write are a single conditional update.
func (o *Ownership) PortfolioCreated(ctx context.Context, ownerID, portfolioID primitive.ObjectID) error {
	n, err := o.Users.SetActivePortfolioIfUnset(ctx, ownerID, portfolioID)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not update active portfolio")
	}
	if n > 0 {
		logEntry(o.Logger).WithFields(logrus.Fields{
			"user_id":      ownerID.Hex(),
			"portfolio_id": portfolioID.Hex(),
		}).Debug("first portfolio activated")
	}
	return nil
}

// PortfolioRemoved clears the pointer of every user that referenced portfolioID.
func (o *Ownership) PortfolioRemoved(ctx context.Context, portfolioID primitive.ObjectID) error {
	if _, err := o.Users.ClearActivePortfolio(ctx, portfolioID); err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not clear active portfolio")
	}
	return nil
}
