package storage

import (
	"context"
	"database/sql"

	"github.com/jobify/assistant/internal/expertsai"
)

// AssignmentExists reports whether the opportunity is already stored for the
// user. Callers check this before InsertAssignment; the table carries no
// uniqueness constraint on purpose.
func (s *Store) AssignmentExists(ctx context.Context, userID, opportunityID string) (bool, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT 1 FROM opportunities WHERE opportunity_id = ? AND user_id = ? LIMIT 1`,
		opportunityID, userID)

	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// InsertAssignment stores the opportunity snapshot for the user.
func (s *Store) InsertAssignment(ctx context.Context, userID string, opp *expertsai.Opportunity) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO opportunities (
	opportunity_id, user_id, title, company, job_type, application_deadline,
	description, url, wage, home_office, benefits,
	formal_requirements, technical_requirements, contact_person
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		opp.ID, userID, opp.Title, opp.Company, opp.Type, opp.Deadline,
		opp.Description, emptyToNull(opp.URL), emptyToNull(opp.Wage),
		emptyToNull(opp.HomeOffice), emptyToNull(opp.Benefits),
		emptyToNull(opp.FormalReq), emptyToNull(opp.TechReq),
		emptyToNull(opp.Contact))
	return err
}

// DeleteAssignments removes every opportunity stored for the user.
func (s *Store) DeleteAssignments(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM opportunities WHERE user_id = ?`, userID)
	return err
}

// ListAssignments returns all opportunities stored for the user.
func (s *Store) ListAssignments(ctx context.Context, userID string) ([]*expertsai.Opportunity, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT opportunity_id, title, company, job_type, application_deadline,
       description, url, wage, home_office, benefits,
       formal_requirements, technical_requirements, contact_person
FROM opportunities WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*expertsai.Opportunity
	for rows.Next() {
		var opp expertsai.Opportunity
		var url, wage, homeOffice, benefits, formalReq, techReq, contact sql.NullString
		if err := rows.Scan(
			&opp.ID, &opp.Title, &opp.Company, &opp.Type, &opp.Deadline,
			&opp.Description, &url, &wage, &homeOffice, &benefits,
			&formalReq, &techReq, &contact,
		); err != nil {
			return nil, err
		}
		opp.URL = url.String
		opp.Wage = wage.String
		opp.HomeOffice = homeOffice.String
		opp.Benefits = benefits.String
		opp.FormalReq = formalReq.String
		opp.TechReq = techReq.String
		opp.Contact = contact.String
		result = append(result, &opp)
	}
	return result, rows.Err()
}

func emptyToNull(value string) any {
	if value == "" {
		return nil
	}
	return value
}
