package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/vytor/loginlab/internal/attack"
	"github.com/vytor/loginlab/internal/demo"
	"github.com/vytor/loginlab/internal/errors"
	"github.com/vytor/loginlab/internal/logger"
	"github.com/vytor/loginlab/internal/metrics"
	"github.com/vytor/loginlab/internal/models"
	"github.com/vytor/loginlab/internal/repository"
	"github.com/vytor/loginlab/internal/session"
)

// Security feature ids highlighted by the safe demo.
const (
	FeatureCSRF           = "csrf-protection"
	FeatureRateLimiting   = "rate-limiting"
	FeatureXSSProtection  = "xss-protection"
	MilestoneSuccessLogin = "successful-login"
)

// DefaultLoginAttemptLimit locks the safe form after this many attempts.
const DefaultLoginAttemptLimit = 5

// SafeLoginService runs the hardened login demo
type SafeLoginService interface {
	Login(ctx context.Context, view *session.SafeLoginView, csrfToken, username, password string) (demo.Result, error)
	SimulateAttempt(ctx context.Context, view *session.SafeLoginView) (int, error)
	ResetAttempts(ctx context.Context, view *session.SafeLoginView) error
	Attempts(ctx context.Context, viewID string) (int, error)
	InsertXSSTest(view *session.SafeLoginView)
	Limit() int
}

type safeLoginService struct {
	accountRepo repository.AccountRepository
	attemptRepo repository.AttemptRepository
	limit       int
	// dummyHash is compared against when the user does not exist so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewSafeLoginService creates a new SafeLoginService. limit is the number of
// attempts a view may make before the form locks.
func NewSafeLoginService(accountRepo repository.AccountRepository, attemptRepo repository.AttemptRepository, limit int) SafeLoginService {
	if limit <= 0 {
		limit = DefaultLoginAttemptLimit
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)
	return &safeLoginService{
		accountRepo: accountRepo,
		attemptRepo: attemptRepo,
		limit:       limit,
		dummyHash:   dummy,
	}
}

func (s *safeLoginService) Limit() int { return s.limit }

func (s *safeLoginService) Login(ctx context.Context, view *session.SafeLoginView, csrfToken, username, password string) (demo.Result, error) {
	log := logger.FromContext(ctx).WithField("view", view.ID())

	view.ClearResult()
	view.SetUsername(username)

	if !view.ValidCSRF(csrfToken) {
		log.Warn("csrf token mismatch")
		view.Highlight(FeatureCSRF)
		metrics.LoginEvaluations.WithLabelValues("safe", "csrf_rejected").Inc()
		return demo.Result{}, errors.NewForbiddenError("invalid CSRF token")
	}

	attempts, err := s.Attempts(ctx, view.ID())
	if err != nil {
		return demo.Result{}, err
	}
	if attempts >= s.limit {
		res := demo.RateLimitedResult()
		view.SetResult(res)
		view.Highlight(FeatureRateLimiting)
		metrics.LoginEvaluations.WithLabelValues("safe", string(res.Outcome)).Inc()
		log.Info("login rejected: rate limited after %d attempts", attempts)
		return res, nil
	}

	clean := demo.Sanitize(username)
	if clean != username {
		view.Highlight(FeatureXSSProtection)
	}

	ok, err := s.verify(ctx, clean, password)
	if err != nil {
		return demo.Result{}, err
	}

	if _, err := s.attemptRepo.Record(ctx, models.LoginAttempt{ViewID: view.ID(), Username: clean, Success: ok}); err != nil {
		log.Error("failed to record attempt: %v", err)
		return demo.Result{}, errors.NewInternalError(err)
	}

	res := demo.SafeResult(clean, ok)
	view.SetResult(res)
	if ok {
		view.MarkSeen(MilestoneSuccessLogin)
	}
	metrics.LoginEvaluations.WithLabelValues("safe", string(res.Outcome)).Inc()
	log.Debug("safe login evaluated: outcome=%s", res.Outcome)
	return res, nil
}

func (s *safeLoginService) verify(ctx context.Context, username, password string) (bool, error) {
	acc, err := s.accountRepo.FindSafeAccount(ctx, username)
	if err != nil {
		logger.FromContext(ctx).Error("failed to look up account: %v", err)
		return false, errors.NewInternalError(err)
	}
	if acc == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false, nil
	}
	return bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)) == nil, nil
}

// SimulateAttempt adds one simulated attempt, never past the limit. The
// rate limiting feature lights up once the limit is reached.
func (s *safeLoginService) SimulateAttempt(ctx context.Context, view *session.SafeLoginView) (int, error) {
	before, err := s.Attempts(ctx, view.ID())
	if err != nil {
		return 0, err
	}
	if before >= s.limit-1 {
		view.Highlight(FeatureRateLimiting)
	}
	if before >= s.limit {
		return before, nil
	}
	if _, err := s.attemptRepo.Record(ctx, models.LoginAttempt{ViewID: view.ID(), Simulated: true}); err != nil {
		logger.FromContext(ctx).Error("failed to record simulated attempt: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return before + 1, nil
}

func (s *safeLoginService) ResetAttempts(ctx context.Context, view *session.SafeLoginView) error {
	if _, err := s.attemptRepo.DeleteByView(ctx, view.ID()); err != nil {
		logger.FromContext(ctx).Error("failed to reset attempts: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *safeLoginService) Attempts(ctx context.Context, viewID string) (int, error) {
	n, err := s.attemptRepo.Count(ctx, viewID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count attempts: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}

// InsertXSSTest fills the username with the XSS payload so the user can see
// it get sanitized on submit.
func (s *safeLoginService) InsertXSSTest(view *session.SafeLoginView) {
	view.SetUsername(attack.XSSPayload)
	view.Highlight(FeatureXSSProtection)
}
