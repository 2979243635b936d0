package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

type homepageRefresher interface {
	RefreshHomepage(ctx context.Context) (int, error)
}

// HomepageRankingJobParams configure the homepage ranking job.
type HomepageRankingJobParams struct {
	Logger  *logger.Logger
	Ranking homepageRefresher
}

// NewHomepageRankingJob recomputes and caches the homepage order each cycle.
func NewHomepageRankingJob(params HomepageRankingJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Ranking == nil {
		return nil, errors.New("ranking service required")
	}
	return &homepageRankingJob{logg: params.Logger, ranking: params.Ranking}, nil
}

type homepageRankingJob struct {
	logg    *logger.Logger
	ranking homepageRefresher
}

func (j *homepageRankingJob) Name() string { return "homepage-ranking" }

func (j *homepageRankingJob) Run(ctx context.Context) error {
	count, err := j.ranking.RefreshHomepage(ctx)
	if err != nil {
		return fmt.Errorf("refresh homepage: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "listings", count), "homepage order refreshed")
	return nil
}
