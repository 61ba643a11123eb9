package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ReindexReport summarizes a reindex pass.
type ReindexReport struct {
	Users   int `json:"users"`
	Chats   int `json:"chats"`
	Cleared int `json:"cleared"`
}

// Reindex rebuilds every user's chat index from the chats collection. It is
// meant to run while the API is not taking writes.
func (s *ChatService) Reindex(ctx context.Context) (*ReindexReport, error) {
	owners, err := s.chats.Owners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat owners: %w", err)
	}

	report := &ReindexReport{}
	seen := make(map[string]struct{}, len(owners))

	for _, owner := range owners {
		seen[owner] = struct{}{}

		summaries, err := s.chats.SummariesByOwner(ctx, owner)
		if err != nil {
			return report, fmt.Errorf("failed to summarize chats of %s: %w", owner, err)
		}
		if err := s.index.Replace(ctx, owner, summaries); err != nil {
			return report, fmt.Errorf("failed to rebuild index of %s: %w", owner, err)
		}

		report.Users++
		report.Chats += len(summaries)
		s.logger.Debug("rebuilt user index", zap.String("user_id", owner), zap.Int("chats", len(summaries)))
	}

	users, err := s.index.Users(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list indexed users: %w", err)
	}
	for _, user := range users {
		if _, ok := seen[user]; ok {
			continue
		}
		if err := s.index.Replace(ctx, user, nil); err != nil {
			return report, fmt.Errorf("failed to clear index of %s: %w", user, err)
		}
		report.Cleared++
	}

	s.logger.Info("reindex complete",
		zap.Int("users", report.Users),
		zap.Int("chats", report.Chats),
		zap.Int("cleared", report.Cleared),
	)

	return report, nil
}
