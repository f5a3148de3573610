package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sigmat-api/apperrors"
	"sigmat-api/metrics"
	"sigmat-api/models"
	"sigmat-api/repositories"
)

// PointsService is the points ledger: purchases credit on confirmation, messages debit.
type PointsService struct {
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	settings SettingsSource
	logger   *zap.Logger
}

func NewPointsService(payments repositories.PaymentRepository, users repositories.UserRepository, settings SettingsSource, logger *zap.Logger) *PointsService {
	return &PointsService{payments: payments, users: users, settings: settings, logger: logger}
}

func (s *PointsService) Packages() []models.PointsPackage {
	return models.PointsPackages()
}

// Purchase opens a pending payment for a package. The balance only changes on Confirm.
func (s *PointsService) Purchase(ctx context.Context, userID string, points int) (*models.PurchaseResult, error) {
	pkg, ok := models.LookupPackage(points)
	if !ok {
		return nil, apperrors.InvalidInput("Invalid package")
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	paypal := settings.PaypalEmail
	if paypal == "" {
		paypal = models.DefaultPaypalEmail
	}

	payment := &models.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		Points:      pkg.Points,
		Price:       pkg.Price,
		PaypalEmail: paypal,
		Status:      models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal("failed to create payment", err)
	}

	return &models.PurchaseResult{
		PaymentID:   payment.ID,
		Points:      payment.Points,
		Price:       payment.Price,
		PaypalEmail: payment.PaypalEmail,
	}, nil
}

// Confirm completes a pending payment and credits its points exactly once.
func (s *PointsService) Confirm(ctx context.Context, paymentID, userID string) (*models.ConfirmResult, error) {
	payment, err := s.payments.GetForUser(ctx, paymentID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("Payment not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load payment", err)
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil, apperrors.Conflict("Payment already completed")
	}

	completed, err := s.payments.MarkCompleted(ctx, payment.ID, time.Now())
	if err != nil {
		return nil, apperrors.Internal("failed to complete payment", err)
	}
	if !completed {
		return nil, apperrors.Conflict("Payment already completed")
	}

	balance, err := s.users.AdjustPoints(ctx, userID, payment.Points)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to credit points", err)
	}
	metrics.PointsCredited(payment.Points)

	s.logger.Info("payment confirmed",
		zap.String("payment_id", payment.ID), zap.String("user_id", userID), zap.Int("points", payment.Points))
	return &models.ConfirmResult{PointsAdded: payment.Points, NewBalance: balance}, nil
}

// Debit subtracts n points without a floor check and returns the new balance.
// Callers verify the balance first; see ChatService.Send.
func (s *PointsService) Debit(ctx context.Context, userID string, n int) (int, error) {
	balance, err := s.users.AdjustPoints(ctx, userID, -n)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, apperrors.NotFound("User not found")
	}
	if err != nil {
		return 0, apperrors.Internal("failed to debit points", err)
	}
	metrics.PointsDebited(n)
	return balance, nil
}
