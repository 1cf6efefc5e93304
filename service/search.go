package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lumina/video-api/ai"
	"lumina/video-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxSearchResults = 10

// minRelevance is the cutoff both the model prompt and the fallback
// scorer use
const minRelevance = 0.3

// Searcher ranks segments of ready videos against a free-text query,
// preferably through the gateway, otherwise with a keyword heuristic
type Searcher struct {
	DB *gorm.DB
	AI ai.Completer
}

// Filters narrows results by a detected-object count, e.g. "at least
// two cars in frame"
type Filters struct {
	ObjectName string `json:"objectName"`
	MinCount   int    `json:"minCount"`
}

// SearchResult is one matched segment with its parent video
// denormalized in for the frontend
type SearchResult struct {
	VideoID            string             `json:"video_id"`
	VideoTitle         string             `json:"video_title"`
	StoragePath        string             `json:"storage_path"`
	SegmentID          string             `json:"segment_id"`
	Timestamp          float64            `json:"timestamp"`
	TimestampFormatted string             `json:"timestamp_formatted"`
	Description        string             `json:"description"`
	Transcript         string             `json:"transcript"`
	OCRText            string             `json:"ocr_text"`
	DetectedObjects    model.ObjectCounts `json:"detected_objects"`
	RelevanceScore     float64            `json:"relevance_score"`
	Reason             string             `json:"reason"`
}

type ranking struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

const searchPrompt = `You are a video search assistant. Rank the segments below against the query "%s".

Segments:
%s
Reply with ONLY a JSON array of at most %d matches sorted by relevance, each element being {"index": <segment number>, "relevance_score": <0..1, only include scores above %.1f>, "reason": "<one short sentence>"}. Reply with an empty array if nothing matches.`

// Search returns the ranked matches plus an informational message for
// the no-data case. Gateway failures are returned as-is so the
// handler can map their status, parse failures fall back to keyword
// scoring locally
func (s *Searcher) Search(ctx context.Context, query, videoID string, filters *Filters) ([]SearchResult, string, error) {
	segments, videos, err := s.loadSegments(videoID)
	if err != nil {
		return nil, "", err
	}

	if len(segments) == 0 {
		return []SearchResult{}, "No analyzed videos found. Upload and analyze a video first.", nil
	}

	rankings, err := s.rank(ctx, query, segments)
	if err != nil {
		return nil, "", err
	}

	if filters != nil && filters.ObjectName != "" {
		rankings = filterByObject(rankings, segments, filters)
	}

	results := make([]SearchResult, 0, len(rankings))
	for _, r := range rankings {
		seg := segments[r.Index]
		v := videos[seg.VideoID]

		results = append(results, SearchResult{
			VideoID:            seg.VideoID,
			VideoTitle:         v.Title,
			StoragePath:        v.StoragePath,
			SegmentID:          seg.ID,
			Timestamp:          seg.Timestamp,
			TimestampFormatted: seg.TimestampFormatted,
			Description:        seg.Description,
			Transcript:         seg.Transcript,
			OCRText:            seg.OCRText,
			DetectedObjects:    seg.DetectedObjects,
			RelevanceScore:     r.RelevanceScore,
			Reason:             r.Reason,
		})
	}

	return results, "", nil
}

// loadSegments fetches all segments of ready videos, optionally
// scoped to a single video, together with their parent rows
func (s *Searcher) loadSegments(videoID string) ([]model.VideoSegment, map[string]model.Video, error) {
	q := s.DB.
		Joins("JOIN videos ON videos.id = video_segments.video_id").
		Where("videos.status = ?", model.StatusReady)

	if videoID != "" {
		q = q.Where("video_segments.video_id = ?", videoID)
	}

	var segments []model.VideoSegment
	err := q.Order("video_segments.video_id, video_segments.timestamp").Find(&segments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch segments, %w", err)
	}

	ids := make([]string, 0, len(segments))
	seen := map[string]bool{}
	for _, seg := range segments {
		if !seen[seg.VideoID] {
			seen[seg.VideoID] = true
			ids = append(ids, seg.VideoID)
		}
	}

	videos := make(map[string]model.Video, len(ids))
	if len(ids) > 0 {
		var rows []model.Video
		err = s.DB.Where("id IN ?", ids).Find(&rows).Error
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch videos, %w", err)
		}

		for _, v := range rows {
			videos[v.ID] = v
		}
	}

	return segments, videos, nil
}

// rank asks the gateway for a ranking. Gateway HTTP errors propagate
// so the handler can pass 429/402 through, while a missing API key or
// an unparseable reply falls back to keyword scoring locally
func (s *Searcher) rank(ctx context.Context, query string, segments []model.VideoSegment) ([]ranking, error) {
	reply, err := s.AI.Complete(ctx, fmt.Sprintf(searchPrompt, query, describeSegments(segments), maxSearchResults, minRelevance))
	if err != nil {
		if errors.Is(err, ai.ErrNoAPIKey) {
			zap.L().Warn("No gateway key configured, falling back to keyword scoring")
			return keywordRank(query, segments), nil
		}

		return nil, err
	}

	frag, err := ai.ExtractJSONArray(reply)
	if err != nil {
		zap.L().Warn("No JSON array in search reply, falling back to keyword scoring")
		return keywordRank(query, segments), nil
	}

	var rankings []ranking
	if err := json.Unmarshal([]byte(frag), &rankings); err != nil {
		zap.L().Warn("Failed to parse search reply, falling back to keyword scoring", zap.Error(err))
		return keywordRank(query, segments), nil
	}

	// The model occasionally makes indices up, drop anything that
	// doesn't point at a real segment
	valid := rankings[:0]
	for _, r := range rankings {
		if r.Index >= 0 && r.Index < len(segments) && r.RelevanceScore > minRelevance {
			valid = append(valid, r)
		}
	}

	if len(valid) > maxSearchResults {
		valid = valid[:maxSearchResults]
	}

	return valid, nil
}

func describeSegments(segments []model.VideoSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&b, "%d. [%s] %s", i, seg.TimestampFormatted, seg.Description)
		if seg.Transcript != "" {
			fmt.Fprintf(&b, " | Transcript: %s", seg.Transcript)
		}
		if seg.OCRText != "" {
			fmt.Fprintf(&b, " | On-screen text: %s", seg.OCRText)
		}
		if len(seg.DetectedObjects) > 0 {
			fmt.Fprintf(&b, " | Objects: %s", formatObjects(seg.DetectedObjects))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatObjects(counts model.ObjectCounts) string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s x%d", label, counts[label]))
	}

	return strings.Join(parts, ", ")
}

// keywordRank scores each segment by the fraction of query words that
// appear as substrings of its embedding text. Deterministic and dumb,
// but it keeps search alive when the gateway is down
func keywordRank(query string, segments []model.VideoSegment) []ranking {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var rankings []ranking
	for i, seg := range segments {
		text := strings.ToLower(seg.EmbeddingText)

		matched := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				matched++
			}
		}

		score := float64(matched) / float64(len(words))
		if score > minRelevance {
			rankings = append(rankings, ranking{
				Index:          i,
				RelevanceScore: score,
				Reason:         "Keyword match",
			})
		}
	}

	sort.SliceStable(rankings, func(a, b int) bool {
		return rankings[a].RelevanceScore > rankings[b].RelevanceScore
	})

	if len(rankings) > maxSearchResults {
		rankings = rankings[:maxSearchResults]
	}

	return rankings
}

// filterByObject drops rankings whose segment doesn't contain at
// least MinCount of the named object
func filterByObject(rankings []ranking, segments []model.VideoSegment, f *Filters) []ranking {
	kept := rankings[:0]
	for _, r := range rankings {
		if segments[r.Index].DetectedObjects[f.ObjectName] >= f.MinCount {
			kept = append(kept, r)
		}
	}

	return kept
}
