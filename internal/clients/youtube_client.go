package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/fetchora/fetchora/internal/models"
)

// YouTubeClient fetches video comments from the YouTube Data API v3.
// The API key is a per-call argument: it is never stored on the client,
// never cached, and never logged.
type YouTubeClient struct {
	endpoint string
}

type YouTubeClientOption func(*YouTubeClient)

// WithEndpoint points the client at an alternate API base URL. Tests use it
// to target a local server.
func WithEndpoint(endpoint string) YouTubeClientOption {
	return func(c *YouTubeClient) {
		c.endpoint = endpoint
	}
}

func NewYouTubeClient(opts ...YouTubeClientOption) *YouTubeClient {
	c := &YouTubeClient{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchComments retrieves every top-level comment for videoID in upstream
// delivery order, paging through commentThreads.list until the continuation
// token runs out. When includeReplies is set, the replies embedded in each
// thread page follow their parent comment; no secondary calls are made.
// Sentiment on the returned records is left unset.
//
// A video with comments disabled yields an empty slice, not an error.
// Cancellation and deadline expiry propagate as the bare context errors.
// Every other failure surfaces as *models.ExternalAPIError with the
// upstream reason untouched and any credential query parameter masked.
// There are no retries.
func (c *YouTubeClient) FetchComments(ctx context.Context, videoID, apiKey string, includeReplies bool) ([]models.CommentRecord, error) {
	svc, err := c.newService(ctx, apiKey)
	if err != nil {
		return nil, &models.ExternalAPIError{Message: "creating youtube service: " + redactKeyParam(err.Error())}
	}

	parts := []string{"snippet"}
	if includeReplies {
		parts = append(parts, "replies")
	}

	records := []models.CommentRecord{}
	pageToken := ""
	pages := 0

	for {
		call := svc.CommentThreads.List(parts).
			VideoId(videoID).
			TextFormat("plainText").
			MaxResults(COMMENTS_PAGE_SIZE).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			if commentsDisabled(err) {
				slog.Info("[YouTubeClient] Comments are disabled for video",
					slog.String("video_id", videoID))
				return []models.CommentRecord{}, nil
			}
			return nil, asExternalAPIError(err)
		}

		for _, thread := range resp.Items {
			record, err := threadToRecord(thread)
			if err != nil {
				return nil, err
			}
			records = append(records, record)

			if includeReplies && thread.Replies != nil {
				for _, reply := range thread.Replies.Comments {
					record, err := commentToRecord(reply)
					if err != nil {
						return nil, err
					}
					records = append(records, record)
				}
			}
		}

		pages++
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	slog.Info("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("comments", len(records)),
		slog.Int("pages", pages))

	return records, nil
}

func (c *YouTubeClient) newService(ctx context.Context, apiKey string) (*youtube.Service, error) {
	opts := []option.ClientOption{
		option.WithAPIKey(apiKey),
		option.WithUserAgent(USER_AGENT),
	}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return youtube.NewService(ctx, opts...)
}

// threadToRecord extracts the top-level comment of a thread. A thread missing
// its nested snippet is a structurally unexpected response and fails instead
// of being coerced into an empty record.
func threadToRecord(thread *youtube.CommentThread) (models.CommentRecord, error) {
	if thread == nil || thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
		return models.CommentRecord{}, &models.ExternalAPIError{
			Message: "malformed commentThread resource: missing topLevelComment",
		}
	}
	return commentToRecord(thread.Snippet.TopLevelComment)
}

func commentToRecord(comment *youtube.Comment) (models.CommentRecord, error) {
	if comment == nil || comment.Snippet == nil {
		return models.CommentRecord{}, &models.ExternalAPIError{
			Message: "malformed comment resource: missing snippet",
		}
	}

	snippet := comment.Snippet
	return models.CommentRecord{
		Author:      snippet.AuthorDisplayName,
		Text:        snippet.TextDisplay,
		PublishedAt: snippet.PublishedAt,
		LikeCount:   snippet.LikeCount,
	}, nil
}

// commentsDisabled reports whether err is the upstream's 403 for a video
// whose owner turned comments off.
func commentsDisabled(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range apiErr.Errors {
		if item.Reason == "commentsDisabled" {
			return true
		}
	}
	return false
}

func asExternalAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		reason := ""
		if len(apiErr.Errors) > 0 {
			reason = apiErr.Errors[0].Reason
		}
		return &models.ExternalAPIError{
			StatusCode: apiErr.Code,
			Reason:     reason,
			Message:    apiErr.Message,
		}
	}
	// Context errors are caller-induced, not upstream failures. Return the
	// bare sentinel rather than the transport wrapper: the boundary only
	// needs the identity to tell a timeout from a bad gateway, and the
	// wrapper text embeds the request URL.
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return context.DeadlineExceeded
	}
	return &models.ExternalAPIError{Message: redactKeyParam(err.Error())}
}

var keyParamPattern = regexp.MustCompile(`([?&]key=)[^&\s"']*`)

// redactKeyParam masks the key query parameter in error text. Transport
// failures quote the full request URL, and the request carries the caller's
// credential as a query parameter; the credential must never reach logs or
// response bodies.
func redactKeyParam(s string) string {
	return keyParamPattern.ReplaceAllString(s, "${1}REDACTED")
}
