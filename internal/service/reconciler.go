package service

import (
	"context"
	"sync"
	"time"

	"github.com/stayforge/auth-server/internal/domain"
	"github.com/stayforge/auth-server/internal/metrics"
	"go.uber.org/zap"
)

const (
	defaultReconcileInterval = 1 * time.Minute
	defaultPendingGrace      = 5 * time.Minute
)

// ReconcilerService resolves tenants left pending by an interrupted
// CreateTenant. A pending tenant that has an owner membership is activated;
// one without is deleted together with any memberships it has.
type ReconcilerService struct {
	tenants     domain.TenantStore
	memberships domain.MembershipStore
	logger      *zap.Logger
	metrics     *metrics.Metrics

	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewReconcilerService(ts domain.TenantStore, ms domain.MembershipStore, logger *zap.Logger) *ReconcilerService {
	return &ReconcilerService{
		tenants:     ts,
		memberships: ms,
		logger:      logger,
		interval:    defaultReconcileInterval,
		grace:       defaultPendingGrace,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}
}

func (s *ReconcilerService) SetInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

// SetGracePeriod sets how long a tenant may stay pending before it is
// reconciled. It must exceed the time a normal CreateTenant takes.
func (s *ReconcilerService) SetGracePeriod(d time.Duration) {
	if d > 0 {
		s.grace = d
	}
}

func (s *ReconcilerService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Start runs the reconciler on a periodic schedule in a background goroutine.
func (s *ReconcilerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("tenant reconciler started",
			zap.Duration("interval", s.interval),
			zap.Duration("grace", s.grace))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				// Failures are logged by RunOnce; the next tick retries.
				_, _, _ = s.RunOnce(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("tenant reconciler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the reconciler.
func (s *ReconcilerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunOnce performs a single reconciliation pass and reports how many tenants
// were activated and how many were reaped.
func (s *ReconcilerService) RunOnce(ctx context.Context) (activated, reaped int, err error) {
	pending, err := s.tenants.ListPending(ctx, s.now().Add(-s.grace))
	if err != nil {
		s.logger.Error("failed to list pending tenants", zap.Error(err))
		return 0, 0, err
	}

	for _, t := range pending {
		members, err := s.memberships.ListByTenant(ctx, t.ID)
		if err != nil {
			s.logger.Warn("failed to load members of pending tenant",
				zap.String("tenant_id", t.ID),
				zap.Error(err))
			continue
		}

		if hasOwner(members) {
			if err := s.tenants.SetStatus(ctx, t.ID, domain.TenantStatusActive); err != nil {
				s.logger.Warn("failed to activate pending tenant",
					zap.String("tenant_id", t.ID),
					zap.Error(err))
				continue
			}
			activated++
			s.metrics.IncReconciled("activated")
			continue
		}

		if _, err := s.memberships.DeleteByTenant(ctx, t.ID); err != nil {
			s.logger.Warn("failed to delete memberships of ownerless tenant",
				zap.String("tenant_id", t.ID),
				zap.Error(err))
			continue
		}
		if err := s.tenants.Delete(ctx, t.ID); err != nil {
			s.logger.Warn("failed to delete ownerless tenant",
				zap.String("tenant_id", t.ID),
				zap.Error(err))
			continue
		}
		reaped++
		s.metrics.IncReconciled("reaped")
	}

	if activated > 0 || reaped > 0 {
		s.logger.Info("reconciled pending tenants",
			zap.Int("activated", activated),
			zap.Int("reaped", reaped))
	}
	return activated, reaped, nil
}

func hasOwner(members []domain.Membership) bool {
	for _, m := range members {
		if m.Owner {
			return true
		}
	}
	return false
}
