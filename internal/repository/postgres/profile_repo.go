package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-profile-backend/internal/domain"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const profileHandleConstraint = "profiles_handle_key"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type profileRepo struct {
	db *pgxpool.Pool
}

// NewProfileRepository stores profiles as rows whose social links,
// experience and education are embedded JSONB documents.
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// selectProfiles joins the owner's name and avatar onto every profile row.
func selectProfiles() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.user_id", "COALESCE(u.name, '')", "COALESCE(u.avatar, '')",
		"p.handle", "p.company", "p.website", "p.location", "p.bio", "p.status",
		"p.skills", "p.social", "p.experience", "p.education",
		"p.created_at", "p.updated_at",
	).From("profiles p").LeftJoin("users u ON u.id = p.user_id")
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var social, experience, education []byte

	err := row.Scan(
		&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar,
		&p.Handle, &p.Company, &p.Website, &p.Location, &p.Bio, &p.Status,
		pq.Array(&p.Skills), &social, &experience, &education,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalDocument(social, &p.Social); err != nil {
		return nil, fmt.Errorf("profile %s social: %w", p.ID, err)
	}
	if err := unmarshalDocument(experience, &p.Experience); err != nil {
		return nil, fmt.Errorf("profile %s experience: %w", p.ID, err)
	}
	if err := unmarshalDocument(education, &p.Education); err != nil {
		return nil, fmt.Errorf("profile %s education: %w", p.ID, err)
	}
	normalize(&p)
	return &p, nil
}

func unmarshalDocument(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// normalize makes empty lists encode as [] rather than null.
func normalize(p *domain.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []domain.Experience{}
	}
	if p.Education == nil {
		p.Education = []domain.Education{}
	}
}

func (r *profileRepo) getOne(ctx context.Context, where sq.Eq) (*domain.Profile, error) {
	query, args, err := selectProfiles().Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProfile(conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.getOne(ctx, sq.Eq{"p.user_id": userID})
}

func (r *profileRepo) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	return r.getOne(ctx, sq.Eq{"p.handle": handle})
}

func (r *profileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	query, args, err := selectProfiles().OrderBy("p.created_at ASC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// Create inserts a new profile. ID and timestamps must already be set.
func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	normalize(p)

	social, err := json.Marshal(p.Social)
	if err != nil {
		return err
	}
	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return err
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (
			id, user_id, handle, company, website, location, bio, status,
			skills, social, experience, education, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12::jsonb, $13, $14)`

	_, err = conn(ctx, r.db).Exec(ctx, query,
		p.ID, p.User.ID, p.Handle, p.Company, p.Website, p.Location, p.Bio, p.Status,
		pq.Array(p.Skills), string(social), string(experience), string(education),
		p.CreatedAt, p.UpdatedAt,
	)
	return mapWriteError(err)
}

// Update writes only the submitted fields of the owner's profile and returns
// the stored result. Social links are merged key by key.
func (r *profileRepo) Update(ctx context.Context, userID string, f domain.ProfileFields) (*domain.Profile, error) {
	q := psql.Update("profiles").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"user_id": userID})

	columns := []struct {
		name  string
		value *string
	}{
		{"handle", f.Handle},
		{"company", f.Company},
		{"website", f.Website},
		{"location", f.Location},
		{"bio", f.Bio},
		{"status", f.Status},
	}
	for _, c := range columns {
		if c.value != nil {
			q = q.Set(c.name, *c.value)
		}
	}
	if f.Skills != nil {
		q = q.Set("skills", pq.Array(f.Skills))
	}
	if !f.Social.IsZero() {
		social, err := json.Marshal(f.Social)
		if err != nil {
			return nil, err
		}
		q = q.Set("social", sq.Expr("social || ?::jsonb", string(social)))
	}

	query, args, err := q.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}

	var id string
	if err := conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapWriteError(err)
	}

	return r.GetByUserID(ctx, userID)
}

// SaveEntries persists the experience and education lists of p.
func (r *profileRepo) SaveEntries(ctx context.Context, p *domain.Profile) error {
	normalize(p)

	experience, err := json.Marshal(p.Experience)
	if err != nil {
		return err
	}
	education, err := json.Marshal(p.Education)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE profiles SET experience = $2::jsonb, education = $3::jsonb, updated_at = $4 WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query, p.ID, string(experience), string(education), p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes the owner's profile. A missing profile is not an error.
func (r *profileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == profileHandleConstraint {
		return domain.ErrHandleTaken
	}
	return err
}
