package recommend

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"shopRecommender/domain"
	"shopRecommender/pkg/logger"
)

type Service struct {
	activityRepo ActivityRepository
	purchaseRepo PurchaseRepository
	productRepo  ProductRepository
	cfgRepo      ConfigRepository
	defaultCfg   Config
	now          func() time.Time
}

// NewService wires the engine. cfgRepo may be nil, in which case every user
// gets defaultCfg.
func NewService(
	activityRepo ActivityRepository,
	purchaseRepo PurchaseRepository,
	productRepo ProductRepository,
	cfgRepo ConfigRepository,
	defaultCfg Config,
) *Service {
	if defaultCfg.FetchTimeout <= 0 {
		defaultCfg.FetchTimeout = defaultFetchTimeout
	}
	if defaultCfg.DefaultLimit <= 0 {
		defaultCfg.DefaultLimit = defaultLimit
	}
	if defaultCfg.MaxLimit < defaultCfg.DefaultLimit {
		defaultCfg.MaxLimit = max(defaultMaxLimit, defaultCfg.DefaultLimit)
	}

	return &Service{
		activityRepo: activityRepo,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		cfgRepo:      cfgRepo,
		defaultCfg:   defaultCfg,
		now:          time.Now,
	}
}

// Recommend returns up to limit product ids for the user. userID 0 is an
// anonymous visitor. Data access failures degrade the result instead of
// failing the call; the only error is ErrInvalidLimit.
func (s *Service) Recommend(ctx context.Context, userID uint, limit int) ([]uint64, error) {
	cands, err := s.Explain(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return domain.ProductIDs(cands), nil
}

// Explain is Recommend with score, source and reason for every product.
func (s *Service) Explain(ctx context.Context, userID uint, limit int) ([]domain.ScoredCandidate, error) {
	limit, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	if userID == 0 {
		return s.finish(PathAnonymous, s.baseTrending(ctx, limit)), nil
	}

	tid := TraceIDFromContext(ctx)

	// config load and both fetch phases share one budget
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchBudget(ctx))
	defer cancel()

	cfg, variant := s.loadConfigForUser(fetchCtx, userID)

	// phase 1: what the user did
	var (
		activities  []domain.ActivityRecord
		purchases   []domain.PurchaseRecord
		activityErr error
		purchaseErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		activities, activityErr = s.activityRepo.GetUserActivity(fetchCtx, userID)
		return nil
	})
	g.Go(func() error {
		purchases, purchaseErr = s.purchaseRepo.GetPaidPurchases(fetchCtx, userID)
		return nil
	})
	_ = g.Wait()

	if s.timedOut(ctx, fetchCtx) {
		return s.fallback(ctx, cfg, userID, limit, "profile"), nil
	}
	if activityErr != nil {
		s.absorb(ctx, "activity", userID, activityErr)
		activities = nil
	}
	if purchaseErr != nil {
		s.absorb(ctx, "purchases", userID, purchaseErr)
		purchases = nil
	}

	profile := BuildProfile(activities, purchases, cfg)
	if profile == nil {
		path := PathColdStart
		if activityErr != nil || purchaseErr != nil {
			path = PathFallback
		}
		logger.Debug("recommend_cold_start",
			"trace_id", tid,
			"user_id", userID,
			"variant", variant,
		)
		return s.finish(path, s.trendingOnly(ctx, cfg, userID, limit)), nil
	}

	// phase 2: candidate sources
	var (
		catalog    []domain.Product
		collab     []domain.ScoredCandidate
		catalogErr error
		collabErr  error
	)

	var fan errgroup.Group
	fan.Go(func() error {
		catalog, catalogErr = s.productRepo.FindRecommendable(fetchCtx)
		return nil
	})
	fan.Go(func() error {
		collab, collabErr = s.collaborativeCandidates(fetchCtx, userID, profile.PurchasedProducts, limit, cfg)
		return nil
	})
	_ = fan.Wait()

	if s.timedOut(ctx, fetchCtx) {
		return s.fallback(ctx, cfg, userID, limit, "candidates"), nil
	}
	if catalogErr != nil {
		s.absorb(ctx, "catalog", userID, catalogErr)
		catalog = nil
	}
	if collabErr != nil {
		s.absorb(ctx, "collaborative", userID, collabErr)
		collab = nil
	}

	content := contentCandidates(catalog, profile, contentScorerFor(cfg), limit)

	blended := Blend(collab, content, nil, limit, cfg.CollaborativeShare)
	if len(blended) < limit {
		// fetch twice the limit so dedup against earlier picks still fills the list
		var trending []domain.ScoredCandidate
		switch {
		case len(catalog) > 0:
			trending = s.trendingCandidates(fetchCtx, cfg, catalog, 2*limit)
		case catalogErr != nil:
			// one more catalog read, on the reserve left for the fallback
			trending = s.trendingOnly(ctx, cfg, userID, 2*limit)
		}
		blended = Blend(collab, content, trending, limit, cfg.CollaborativeShare)
	}

	if len(blended) == 0 && catalogErr == nil {
		logger.Info("recommend_empty_catalog",
			"trace_id", tid,
			"user_id", userID,
		)
	}

	logger.Debug("recommend_served",
		"trace_id", tid,
		"user_id", userID,
		"variant", variant,
		"content_strategy", cfg.ContentStrategy,
		"collaborative", len(collab),
		"content", len(content),
		"returned", len(blended),
	)

	path := PathPersonalized
	if collabErr != nil || catalogErr != nil || activityErr != nil || purchaseErr != nil {
		path = PathFallback
	}
	return s.finish(path, blended), nil
}

// Trending returns the non-personalized ranking shown to new visitors.
func (s *Service) Trending(ctx context.Context, limit int) ([]domain.ScoredCandidate, error) {
	limit, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.baseTrending(ctx, limit), nil
}

// baseTrending serves visitors without a user id. The config load and the
// catalog read share one fetch timeout.
func (s *Service) baseTrending(ctx context.Context, limit int) []domain.ScoredCandidate {
	ctx, cancel := context.WithTimeout(ctx, s.fetchBudget(ctx))
	defer cancel()
	return s.trendingOnly(ctx, s.loadConfig(ctx, 0), 0, limit)
}

// fetchBudget is FetchTimeout, cut to half of the time the caller has left so
// that the trending fallback still has the other half once it expires.
func (s *Service) fetchBudget(ctx context.Context) time.Duration {
	budget := s.defaultCfg.FetchTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if half := time.Until(deadline) / 2; half < budget {
			budget = half
		}
	}
	return budget
}

// normalizeLimit maps 0 to the default limit and clamps to the maximum.
func (s *Service) normalizeLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, domain.ErrInvalidLimit
	case limit == 0:
		return s.defaultCfg.DefaultLimit, nil
	case limit > s.defaultCfg.MaxLimit:
		return s.defaultCfg.MaxLimit, nil
	default:
		return limit, nil
	}
}

// trendingOnly runs under its own timeout so it can serve as the fallback
// after the main fetch deadline has passed.
func (s *Service) trendingOnly(ctx context.Context, cfg Config, userID uint, limit int) []domain.ScoredCandidate {
	tctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	catalog, err := s.productRepo.FindRecommendable(tctx)
	if err != nil {
		s.absorb(ctx, "catalog", userID, err)
		return []domain.ScoredCandidate{}
	}
	if len(catalog) == 0 {
		logger.Info("recommend_empty_catalog",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
		)
		return []domain.ScoredCandidate{}
	}

	return s.trendingCandidates(tctx, cfg, catalog, limit)
}

func (s *Service) fallback(ctx context.Context, cfg Config, userID uint, limit int, phase string) []domain.ScoredCandidate {
	s.absorb(ctx, phase, userID, context.DeadlineExceeded)
	return s.finish(PathFallback, s.trendingOnly(ctx, cfg, userID, limit))
}

// timedOut reports whether the fetch deadline expired while the caller is still waiting.
func (s *Service) timedOut(parent, fetchCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded)
}

func (s *Service) absorb(ctx context.Context, generator string, userID uint, err error) {
	GeneratorFailuresTotal.WithLabelValues(generator).Inc()
	logger.Warn("recommend_generator_failed",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"generator", generator,
		"error", err,
	)
}

func (s *Service) finish(path string, cands []domain.ScoredCandidate) []domain.ScoredCandidate {
	if cands == nil {
		cands = []domain.ScoredCandidate{}
	}
	RequestsTotal.WithLabelValues(path).Inc()
	ResultSize.Observe(float64(len(cands)))
	return cands
}
