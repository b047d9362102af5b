package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PaddyWebDev/safemax-backend/internal/model"
	"github.com/PaddyWebDev/safemax-backend/libs/db"
)

var (
	// ErrSlotTaken means another appointment already holds the exact
	// scheduled instant.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrDuplicate means the same requester already asked for this instant.
	ErrDuplicate = errors.New("appointment already exists for requester")
	// ErrNotFound means no appointment matches the identifier.
	ErrNotFound = errors.New("appointment not found")
)

const (
	slotConstraint      = "appointments_scheduled_at_key"
	duplicateConstraint = "appointments_email_scheduled_at_key"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// EnsureSchema creates the appointments table. Both unique constraints are
// load-bearing: concurrent booking requests for the same slot race past the
// handler pre-checks, and the insert resolves the race by mapping the
// constraint violation to the conflict outcome.
func (r *AppointmentRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS appointments (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			scheduled_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			comments TEXT NOT NULL DEFAULT 'No Comments',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT appointments_scheduled_at_key UNIQUE (scheduled_at),
			CONSTRAINT appointments_email_scheduled_at_key UNIQUE (email, scheduled_at)
		)
	`)
	return err
}

// Create inserts the appointment in a single statement and returns the stored
// row. Unique violations surface as ErrSlotTaken or ErrDuplicate depending on
// which constraint fired.
func (r *AppointmentRepository) Create(ctx context.Context, appt model.Appointment) (model.Appointment, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (name, email, scheduled_at, status, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, appt.Name, appt.Email, appt.ScheduledAt, appt.Status, appt.Comments).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case slotConstraint:
				return model.Appointment{}, ErrSlotTaken
			case duplicateConstraint:
				return model.Appointment{}, ErrDuplicate
			}
		}
		return model.Appointment{}, err
	}
	return appt, nil
}

// GetByID returns ErrNotFound when the identifier has no row.
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (model.Appointment, error) {
	var appt model.Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, scheduled_at, status, comments, created_at
		FROM appointments
		WHERE id = $1
	`, id).Scan(
		&appt.ID,
		&appt.Name,
		&appt.Email,
		&appt.ScheduledAt,
		&appt.Status,
		&appt.Comments,
		&appt.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Appointment{}, ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $2
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBetween returns appointments scheduled in [start, end], ascending.
func (r *AppointmentRepository) ListBetween(ctx context.Context, start, end time.Time) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, scheduled_at, status, comments, created_at
		FROM appointments
		WHERE scheduled_at >= $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		if err := rows.Scan(
			&appt.ID,
			&appt.Name,
			&appt.Email,
			&appt.ScheduledAt,
			&appt.Status,
			&appt.Comments,
			&appt.CreatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

// SlotBooked reports whether any appointment holds the exact instant.
// Pre-check only; the insert constraint is authoritative.
func (r *AppointmentRepository) SlotBooked(ctx context.Context, at time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM appointments WHERE scheduled_at = $1)
	`, at).Scan(&exists)
	return exists, err
}

// DuplicateExists reports whether the requester already booked the instant.
func (r *AppointmentRepository) DuplicateExists(ctx context.Context, email string, at time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM appointments WHERE email = $1 AND scheduled_at = $2)
	`, email, at).Scan(&exists)
	return exists, err
}
