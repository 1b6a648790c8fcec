package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, result ParsingResult) error {
	skills := result.Skills
	if skills == nil {
		skills = []string{}
	}
	experiences := result.Experiences
	if experiences == nil {
		experiences = []Experience{}
	}
	skillsRaw, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	experiencesRaw, err := json.Marshal(experiences)
	if err != nil {
		return fmt.Errorf("marshal experiences: %w", err)
	}

	const query = `
INSERT INTO resume_parsing_results (id, full_name, email, phone, skills, experiences, resume_summary, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (id) DO UPDATE SET
  full_name = EXCLUDED.full_name,
  email = EXCLUDED.email,
  phone = EXCLUDED.phone,
  skills = EXCLUDED.skills,
  experiences = EXCLUDED.experiences,
  resume_summary = EXCLUDED.resume_summary,
  updated_at = now()`
	_, err = r.DB.ExecContext(ctx, query,
		result.ID,
		result.FullName,
		result.Email,
		result.Phone,
		skillsRaw,
		experiencesRaw,
		result.ResumeSummary,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (ParsingResult, error) {
	const query = `
SELECT id, full_name, email, phone, skills, experiences, resume_summary, created_at, updated_at
FROM resume_parsing_results
WHERE id = $1
LIMIT 1`
	var result ParsingResult
	var fullName, email, phone, summary sql.NullString
	var skillsRaw, experiencesRaw []byte
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&result.ID,
		&fullName,
		&email,
		&phone,
		&skillsRaw,
		&experiencesRaw,
		&summary,
		&result.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ParsingResult{}, ErrNotFound
		}
		return ParsingResult{}, err
	}
	result.FullName = nullablePtr(fullName)
	result.Email = nullablePtr(email)
	result.Phone = nullablePtr(phone)
	result.ResumeSummary = nullablePtr(summary)
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &result.Skills); err != nil {
			return ParsingResult{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	if len(experiencesRaw) > 0 {
		if err := json.Unmarshal(experiencesRaw, &result.Experiences); err != nil {
			return ParsingResult{}, fmt.Errorf("decode experiences: %w", err)
		}
	}
	if updatedAt.Valid {
		result.UpdatedAt = updatedAt.Time
	} else {
		result.UpdatedAt = time.Now().UTC()
	}
	return result, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resume_parsing_results WHERE id = $1`, id)
	return err
}

func nullablePtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
