package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"Nocturne/player"

	"github.com/kkdai/youtube/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// Resolver turns user queries into tracks and track locators into streams.
type Resolver interface {
	// Resolve classifies query as a direct locator or a search term and
	// returns the best matching track. ErrNotFound when search comes up empty.
	Resolve(ctx context.Context, query string) (player.Track, error)

	// Open acquires a playable audio stream for a previously resolved locator.
	Open(ctx context.Context, sourceRef string) (io.ReadCloser, error)
}

// YouTube resolves queries against YouTube, caching video metadata in Redis.
type YouTube struct {
	client   youtube.Client
	redis    *redis.Client // nil disables the metadata cache
	cacheTTL time.Duration
}

// NewYouTube creates a resolver. rdb may be nil, in which case every
// metadata lookup goes to the network.
func NewYouTube(rdb *redis.Client) *YouTube {
	return &YouTube{
		redis:    rdb,
		cacheTTL: time.Duration(viper.GetInt("cache.metadata")) * time.Second,
	}
}

func (y *YouTube) Resolve(ctx context.Context, query string) (player.Track, error) {
	if id, ok := classify(query); ok {
		t := player.Track{Title: query, SourceRef: id}
		if video, err := y.videoMetadata(ctx, id); err == nil {
			t.Title = video.Title
			t.Duration = video.Duration
		}
		return t, nil
	}
	return y.search(ctx, query)
}

func (y *YouTube) Open(ctx context.Context, sourceRef string) (io.ReadCloser, error) {
	video, err := y.client.GetVideoContext(ctx, sourceRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no audio formats for %s", ErrStreamUnavailable, sourceRef)
	}

	stream, _, err := y.client.GetStreamContext(ctx, video, &formats[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamUnavailable, err)
	}
	return stream, nil
}

// classify reports whether query is a direct YouTube locator and, if so,
// returns its video ID. Only URL-shaped input counts as direct; a bare word,
// even one that happens to look like a video ID, is a search term.
func classify(query string) (string, bool) {
	if strings.ContainsAny(query, " \t") {
		return "", false
	}
	if !strings.Contains(query, "youtu") {
		return "", false
	}
	id, err := youtube.ExtractVideoID(query)
	if err != nil {
		return "", false
	}
	return id, true
}

// videoMetadata fetches video metadata, going through the Redis cache first.
func (y *YouTube) videoMetadata(ctx context.Context, videoID string) (*youtube.Video, error) {
	if y.redis != nil {
		cached, err := y.redis.Get(ctx, "ytmeta:"+videoID).Result()
		if err == nil && cached != "" {
			var video youtube.Video
			if err := json.Unmarshal([]byte(cached), &video); err == nil {
				return &video, nil
			}
		}
	}

	video, err := y.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if y.redis != nil {
		if data, err := json.Marshal(video); err == nil {
			y.redis.Set(ctx, "ytmeta:"+videoID, data, y.cacheTTL)
		}
	}
	return video, nil
}
