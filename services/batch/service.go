package batch

import (
	"context"
	"sync"
	"time"

	"ytbrief/classify"
	"ytbrief/errors"
	"ytbrief/models"
	"ytbrief/repository"
	"ytbrief/resolver"
	"ytbrief/services/summarize"
	"ytbrief/validation"

	"github.com/sirupsen/logrus"
)

// position is one slot of the submitted reference list after playlist
// expansion. A position with a non-nil err never enters the pipeline.
type position struct {
	ref models.VideoRef
	err error
}

// identity is the unit of work: one canonical video, however many
// positions reference it. Quota is charged once per identity and the
// outcome is replicated to every position.
type identity struct {
	ref       models.VideoRef
	positions []int
	record    *models.SummaryRecord
	fromCache bool
	err       error
}

type service struct {
	validator  *validation.Validator
	resolver   resolver.Resolver
	summaries  repository.SummaryRepository
	quota      repository.QuotaRepository
	summarizer summarize.Service
	exporter   Exporter
	config     Config
	logger     *logrus.Logger
}

// NewService builds the batch orchestrator. exporter may be nil when
// export is disabled.
func NewService(
	validator *validation.Validator,
	res resolver.Resolver,
	summaries repository.SummaryRepository,
	quota repository.QuotaRepository,
	summarizer summarize.Service,
	exporter Exporter,
	config Config,
) Service {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 1
	}
	return &service{
		validator:  validator,
		resolver:   res,
		summaries:  summaries,
		quota:      quota,
		summarizer: summarizer,
		exporter:   exporter,
		config:     config,
		logger:     logrus.StandardLogger(),
	}
}

func (s *service) Run(ctx context.Context, userID string, refs []string, force bool) (*models.BatchResult, error) {
	const op = "BatchService.Run"

	if userID == "" {
		return nil, errors.InvalidInput(op, nil, "A user id is required")
	}
	if len(refs) == 0 {
		return nil, errors.InvalidInput(op, nil, "At least one video reference is required")
	}

	positions := s.expand(ctx, refs)
	return s.process(ctx, userID, positions, force), nil
}

func (s *service) RunPlaylist(ctx context.Context, userID, playlistURL string) (*models.BatchResult, error) {
	const op = "BatchService.RunPlaylist"

	if userID == "" {
		return nil, errors.InvalidInput(op, nil, "A user id is required")
	}
	playlistID := s.validator.ParsePlaylistID(playlistURL)
	if playlistID == "" {
		return nil, errors.InvalidInput(op, nil, "Not a valid playlist URL")
	}

	refs, err := s.resolver.ExpandPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	positions := make([]position, 0, len(refs))
	for _, ref := range refs {
		positions = append(positions, position{ref: ref})
	}
	return s.process(ctx, userID, positions, false), nil
}

// expand turns raw references into positions, expanding playlists in
// place. Parse and expansion failures become position errors so the rest
// of the batch continues.
func (s *service) expand(ctx context.Context, refs []string) []position {
	positions := make([]position, 0, len(refs))
	for _, raw := range refs {
		if s.validator.IsPlaylist(raw) {
			playlistID := s.validator.ParsePlaylistID(raw)
			members, err := s.resolver.ExpandPlaylist(ctx, playlistID)
			if err != nil {
				positions = append(positions, position{
					ref: models.VideoRef{Raw: raw},
					err: err,
				})
				continue
			}
			for _, member := range members {
				positions = append(positions, position{ref: member})
			}
			continue
		}

		ref, err := s.validator.ParseVideoRef(raw)
		if err != nil {
			positions = append(positions, position{
				ref: models.VideoRef{Raw: raw},
				err: err,
			})
			continue
		}
		positions = append(positions, position{ref: ref})
	}
	return positions
}

func (s *service) process(ctx context.Context, userID string, positions []position, force bool) *models.BatchResult {
	identities := s.group(positions)
	s.prepare(ctx, userID, identities, force)
	s.dispatch(ctx, identities)
	return s.assemble(positions, identities)
}

// group collapses positions onto unique video identities, preserving
// first-seen order.
func (s *service) group(positions []position) []*identity {
	ordered := make([]*identity, 0, len(positions))
	byID := make(map[string]*identity, len(positions))
	for i, pos := range positions {
		if pos.err != nil {
			continue
		}
		id, ok := byID[pos.ref.ID]
		if !ok {
			id = &identity{ref: pos.ref}
			byID[pos.ref.ID] = id
			ordered = append(ordered, id)
		}
		id.positions = append(id.positions, i)
	}
	return ordered
}

// prepare runs the sequential cache and quota pre-pass. Identities leave
// this step either resolved from cache, charged and cleared for dispatch,
// or failed.
func (s *service) prepare(ctx context.Context, userID string, identities []*identity, force bool) {
	for _, id := range identities {
		logger := s.logger.WithFields(logrus.Fields{
			"video_id": id.ref.ID,
			"user_id":  userID,
		})

		if !force {
			record, err := s.summaries.Find(ctx, id.ref.ID)
			if err == nil {
				id.record = record
				id.fromCache = true
				continue
			}
			if !errors.IsNotFound(err) {
				logger.WithError(err).Warn("Cache lookup failed, treating as miss")
			}
		}

		if _, err := s.quota.TryConsume(ctx, userID, s.config.DailyLimit); err != nil {
			id.err = err
			continue
		}
	}
}

// dispatch runs every still-pending identity through the pipeline with
// bounded concurrency.
func (s *service) dispatch(ctx context.Context, identities []*identity) {
	sem := make(chan struct{}, s.config.MaxConcurrent)
	var wg sync.WaitGroup

	for _, id := range identities {
		if id.record != nil || id.err != nil {
			continue
		}
		wg.Add(1)
		go func(id *identity) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			id.record, id.err = s.processOne(ctx, id.ref)
		}(id)
	}
	wg.Wait()
}

func (s *service) processOne(ctx context.Context, ref models.VideoRef) (*models.SummaryRecord, error) {
	logger := s.logger.WithField("video_id", ref.ID)

	if s.config.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ItemTimeout)
		defer cancel()
	}

	transcript, md, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	tag := classify.Classify(transcript, *md)
	body, readingMinutes, err := s.summarizer.Summarize(ctx, transcript, *md, tag)
	if err != nil {
		return nil, err
	}

	record := &models.SummaryRecord{
		VideoID:        ref.ID,
		Title:          md.Title,
		Channel:        md.Channel,
		PublishedAt:    md.PublishedAt,
		Duration:       md.Duration,
		ContentType:    tag,
		Body:           body,
		ReadingMinutes: readingMinutes,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.summaries.Save(ctx, record); err != nil {
		logger.WithError(err).Error("Failed to cache summary")
	}
	if s.exporter != nil {
		if err := s.exporter.SaveSummary(ctx, record); err != nil {
			logger.WithError(err).Error("Failed to export summary")
		}
	}

	return record, nil
}

// assemble rebuilds the ordered result list, replicating each identity's
// outcome to all of its positions.
func (s *service) assemble(positions []position, identities []*identity) *models.BatchResult {
	items := make([]models.ItemResult, len(positions))
	for i, pos := range positions {
		items[i] = models.ItemResult{Ref: pos.ref, Err: pos.err}
	}
	for _, id := range identities {
		for _, i := range id.positions {
			items[i].Record = id.record
			items[i].FromCache = id.fromCache
			items[i].Err = id.err
		}
	}
	return &models.BatchResult{Items: items}
}
