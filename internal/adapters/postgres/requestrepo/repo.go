package requestrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/gyiad-org/membership-api/internal/adapters/postgres"
	"github.com/gyiad-org/membership-api/internal/domain"
	"github.com/gyiad-org/membership-api/internal/ports/out/requestrepo"
)

// Repo is a Postgres implementation of requestrepo.Repository. The admin
// listing joins the members table for the owner summary.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, req domain.Request) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(req.ID))
	if err != nil {
		return fmt.Errorf("invalid request id: %w", err)
	}
	memberID, err := uuid.Parse(string(req.MemberID))
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO member_requests (
			id, member_id, subject, message, status, admin_reply, replied_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		memberID,
		req.Subject,
		req.Message,
		string(req.Status),
		req.AdminReply,
		req.RepliedAt,
		req.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return requestrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, req domain.Request) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(req.ID))
	if err != nil {
		return requestrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE member_requests
		SET subject = $2, message = $3, status = $4, admin_reply = $5, replied_at = $6
		WHERE id = $1
	`,
		id,
		req.Subject,
		req.Message,
		string(req.Status),
		req.AdminReply,
		req.RepliedAt,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return requestrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.RequestID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return requestrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM member_requests WHERE id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return requestrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.RequestID) (domain.Request, error) {
	if r.pool == nil {
		return domain.Request{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Request{}, requestrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, member_id, subject, message, status, admin_reply, replied_at, created_at
		FROM member_requests
		WHERE id = $1
	`, uid)
	return scanRequest(row)
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]domain.Request, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(memberID))
	if err != nil {
		return []domain.Request{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, subject, message, status, admin_reply, replied_at, created_at
		FROM member_requests
		WHERE member_id = $1
		ORDER BY created_at DESC, id ASC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListWithMembers(ctx context.Context) ([]requestrepo.RequestWithMember, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT
			r.id, r.member_id, r.subject, r.message, r.status, r.admin_reply, r.replied_at, r.created_at,
			m.full_name, m.email, m.avatar_url
		FROM member_requests r
		JOIN members m ON m.id = r.member_id
		ORDER BY r.created_at DESC, r.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]requestrepo.RequestWithMember, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			memberID   uuid.UUID
			subject    string
			message    string
			status     string
			adminReply *string
			repliedAt  *time.Time
			createdAt  time.Time
			fullName   string
			email      string
			avatarURL  *string
		)
		if err := rows.Scan(
			&id, &memberID, &subject, &message, &status, &adminReply, &repliedAt, &createdAt,
			&fullName, &email, &avatarURL,
		); err != nil {
			return nil, err
		}
		out = append(out, requestrepo.RequestWithMember{
			Request: domain.Request{
				ID:         domain.RequestID(id.String()),
				MemberID:   domain.MemberID(memberID.String()),
				Subject:    subject,
				Message:    message,
				Status:     domain.RequestStatus(status),
				AdminReply: adminReply,
				RepliedAt:  repliedAt,
				CreatedAt:  createdAt.UTC(),
			},
			Member: requestrepo.MemberSummary{
				FullName:  fullName,
				Email:     email,
				AvatarURL: avatarURL,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRequest(row interface {
	Scan(dest ...any) error
}) (domain.Request, error) {
	var (
		id         uuid.UUID
		memberID   uuid.UUID
		subject    string
		message    string
		status     string
		adminReply *string
		repliedAt  *time.Time
		createdAt  time.Time
	)
	if err := row.Scan(&id, &memberID, &subject, &message, &status, &adminReply, &repliedAt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Request{}, requestrepo.ErrNotFound
		}
		return domain.Request{}, err
	}
	return domain.Request{
		ID:         domain.RequestID(id.String()),
		MemberID:   domain.MemberID(memberID.String()),
		Subject:    subject,
		Message:    message,
		Status:     domain.RequestStatus(status),
		AdminReply: adminReply,
		RepliedAt:  repliedAt,
		CreatedAt:  createdAt.UTC(),
	}, nil
}
