package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

type MessageService struct {
	Repo       repo.MessageRepository
	Portfolios repo.PortfolioRepository
	Logger     *logrus.Logger
}

func NewMessageService(r repo.MessageRepository, portfolios repo.PortfolioRepository, logger *logrus.Logger) *MessageService {
	return &MessageService{Repo: r, Portfolios: portfolios, Logger: logger}
}

// Create stores a contact-form message for a portfolio that has its contact
// button enabled. The target portfolio is returned so the caller can notify
// its contact address.
func (s *MessageService) Create(ctx context.Context, portfolioID, senderName, senderEmail, message string) (*entity.Message, *entity.Portfolio, error) {
	pid, err := validation.ObjectID(portfolioID, "Portfolio id")
	if err != nil {
		return nil, nil, err
	}
	if senderName, err = rules.SenderName(senderName); err != nil {
		return nil, nil, err
	}
	if senderEmail, err = validation.Email(senderEmail, "Sender email"); err != nil {
		return nil, nil, err
	}
	if message, err = rules.MessageBody(message); err != nil {
		return nil, nil, err
	}

	p, err := s.Portfolios.GetByID(ctx, pid)
	if err != nil {
		return nil, nil, fromRepo(err, "Portfolio not found")
	}
	if !p.ContactButtonEnabled {
		return nil, nil, apperror.Conflict("Contact is not enabled for this portfolio")
	}

	m := &entity.Message{
		ID:          primitive.NewObjectID(),
		PortfolioID: pid,
		SenderName:  senderName,
		SenderEmail: strings.ToLower(senderEmail),
		Message:     message,
		SentAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		logEntry(s.Logger).WithError(err).WithField("portfolio_id", pid.Hex()).Error("create message failed")
		return nil, nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add message")
	}
	return m, p, nil
}

func (s *MessageService) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	oid, err := validation.ObjectID(id, "Message id")
	if err != nil {
		return nil, err
	}
	m, err := s.Repo.GetByID(ctx, oid)
	if err != nil {
		return nil, fromRepo(err, "Message not found")
	}
	return m, nil
}

func (s *MessageService) ListByPortfolio(ctx context.Context, portfolioID string) ([]entity.Message, error) {
	pid, err := validation.ObjectID(portfolioID, "Portfolio id")
	if err != nil {
		return nil, err
	}
	out, err := s.Repo.ListByPortfolio(ctx, pid)
	if err != nil {
		return nil, fromRepo(err, "Message not found")
	}
	return out, nil
}

// ListByUser returns the messages sent to any of userID's portfolios.
func (s *MessageService) ListByUser(ctx context.Context, userID string) ([]entity.Message, error) {
	uid, err := validation.ObjectID(userID, "User id")
	if err != nil {
		return nil, err
	}
	portfolios, err := s.Portfolios.ListByOwner(ctx, uid)
	if err != nil {
		return nil, fromRepo(err, "Portfolio not found")
	}
	if len(portfolios) == 0 {
		return []entity.Message{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(portfolios))
	for _, p := range portfolios {
		ids = append(ids, p.ID)
	}
	out, err := s.Repo.ListByPortfolios(ctx, ids)
	if err != nil {
		return nil, fromRepo(err, "Message not found")
	}
	return out, nil
}

func (s *MessageService) Remove(ctx context.Context, id string) error {
	oid, err := validation.ObjectID(id, "Message id")
	if err != nil {
		return err
	}
	n, err := s.Repo.Delete(ctx, oid)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not delete message")
	}
	if n == 0 {
		return apperror.Persistence("Could not delete message")
	}
	return nil
}

// RemoveByPortfolio deletes every message of a portfolio and reports how many went.
func (s *MessageService) RemoveByPortfolio(ctx context.Context, portfolioID string) (int64, error) {
	pid, err := validation.ObjectID(portfolioID, "Portfolio id")
	if err != nil {
		return 0, err
	}
	n, err := s.Repo.DeleteByPortfolio(ctx, pid)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.KindPersistence, "Could not delete messages")
	}
	return n, nil
}
