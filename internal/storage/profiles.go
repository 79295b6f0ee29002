package storage

import (
	"context"
	"database/sql"
	"strings"
)

// Profile is a stored student profile. Empty strings mean the field has not
// been filled in yet.
type Profile struct {
	UserID     string
	Name       string
	Email      string
	Skills     string
	Interests  string
	ResumeText string
}

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched by UpsertProfile (merge-on-write).
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Skills    *string
	Interests *string
}

// String returns a pointer usable in a ProfileUpdate, mapping blank input to
// nil so it never overwrites a stored value.
func String(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// UpsertProfile inserts or merge-updates the profile row for the user. Only
// non-nil fields of the update overwrite stored values.
func (s *Store) UpsertProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO students (user_id, name, email, skills, career_interest)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE
  SET name            = COALESCE(excluded.name,            students.name),
      email           = COALESCE(excluded.email,           students.email),
      skills          = COALESCE(excluded.skills,          students.skills),
      career_interest = COALESCE(excluded.career_interest, students.career_interest)
`, userID, update.Name, update.Email, update.Skills, update.Interests)
	return err
}

// GetProfile returns the stored profile, or nil when the user has none.
func (s *Store) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT name, email, skills, career_interest, cv_text
FROM students WHERE user_id = ?`, userID)

	var name, email, skills, interests, resumeText sql.NullString
	if err := row.Scan(&name, &email, &skills, &interests, &resumeText); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &Profile{
		UserID:     userID,
		Name:       name.String,
		Email:      email.String,
		Skills:     skills.String,
		Interests:  interests.String,
		ResumeText: resumeText.String,
	}, nil
}

// DeleteProfile removes the profile row. It reports whether a row existed.
func (s *Store) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM students WHERE user_id = ?`, userID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SetResumeText upserts the raw extracted resume text for the user, leaving
// all other profile fields untouched.
func (s *Store) SetResumeText(ctx context.Context, userID, text string) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO students (user_id, cv_text)
VALUES (?, ?)
ON CONFLICT (user_id) DO UPDATE
  SET cv_text = excluded.cv_text
`, userID, text)
	return err
}
