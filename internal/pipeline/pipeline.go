package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fetchora/fetchora/internal/clients"
	"github.com/fetchora/fetchora/internal/export"
	"github.com/fetchora/fetchora/internal/models"
	"github.com/fetchora/fetchora/internal/sentiment"
)

// CommentFetcher retrieves all comments for a video in upstream delivery order.
type CommentFetcher interface {
	FetchComments(ctx context.Context, videoID, apiKey string, includeReplies bool) ([]models.CommentRecord, error)
}

// Request carries one caller invocation through the pipeline. The API key
// lives only on this value for the duration of the request; nothing stores
// or logs it.
type Request struct {
	VideoURL       string
	APIKey         string
	Format         export.Kind
	IncludeReplies bool
}

// Pipeline wires the fetch -> label -> export stages. Stateless across
// requests: every Run works exclusively on its own arguments.
type Pipeline struct {
	fetcher CommentFetcher
	labeler sentiment.Labeler
}

func New(fetcher CommentFetcher, labeler sentiment.Labeler) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		labeler: labeler,
	}
}

// NewDefault assembles the production pipeline: YouTube Data API fetcher plus
// VADER labeler.
func NewDefault() *Pipeline {
	return New(clients.NewYouTubeClient(), sentiment.NewVADERLabeler())
}

// Run executes one fetch -> label -> export pass. Fail-fast: a fetch error
// stops the pipeline before any labeling or rendering happens, and no stage
// retries on its own.
func (p *Pipeline) Run(ctx context.Context, req Request) (*export.File, error) {
	metrics.Requests.Add(1)
	start := time.Now()

	videoID, err := clients.ExtractVideoID(req.VideoURL)
	if err != nil {
		metrics.Failures.Add(1)
		return nil, err
	}

	records, err := p.fetcher.FetchComments(ctx, videoID, req.APIKey, req.IncludeReplies)
	if err != nil {
		metrics.Failures.Add(1)
		return nil, err
	}
	metrics.CommentsFetched.Add(int64(len(records)))

	positive := 0
	for i := range records {
		records[i].Sentiment = p.labeler.Label(records[i].Text)
		if records[i].Sentiment == models.SentimentPositive {
			positive++
		}
	}
	metrics.PositiveLabels.Add(int64(positive))
	metrics.NegativeLabels.Add(int64(len(records) - positive))

	file, err := export.Render(records, req.Format)
	if err != nil {
		metrics.Failures.Add(1)
		return nil, err
	}
	incrExport(req.Format)

	slog.Info("[Pipeline] Export ready",
		slog.String("video_id", videoID),
		slog.Int("comments", len(records)),
		slog.Int("positive", positive),
		slog.Int("negative", len(records)-positive),
		slog.String("format", string(req.Format)),
		slog.Duration("elapsed", time.Since(start)))

	return file, nil
}
