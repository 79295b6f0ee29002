package storage

import "context"

// InsertFeedback stores a feedback text with no rating yet.
func (s *Store) InsertFeedback(ctx context.Context, userID, text string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO feedback (user_id, feedback_text, stars) VALUES (?, ?, NULL)`,
		userID, text)
	return err
}

// RateFeedback sets the star rating on the user's latest unrated feedback
// entry. Earlier rated entries are never touched.
func (s *Store) RateFeedback(ctx context.Context, userID string, stars int) error {
	_, err := s.DB.ExecContext(ctx, `
UPDATE feedback
SET stars = ?
WHERE id = (
	SELECT id FROM feedback
	WHERE user_id = ? AND stars IS NULL
	ORDER BY id DESC
	LIMIT 1
)`, stars, userID)
	return err
}
