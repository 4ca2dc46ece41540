package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-clinic-scheduling/internal/domain/appointments"
	"vet-clinic-scheduling/internal/domain/scheduling"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultMaxRetries = 3

	constraintVetNoOverlap = "appointments_vet_no_overlap"
	constraintPetNoOverlap = "appointments_pet_no_overlap"

	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateExclusionViolation   = "23P01"
)

const selectColumns = `
	id, public_id::text, pet_id, vet_id,
	to_char(appointment_date, 'YYYY-MM-DD'),
	to_char(appointment_time, 'HH24:MI:SS'),
	duration_minutes,
	to_char(end_time, 'HH24:MI:SS'),
	start_date_time, end_date_time,
	status, is_active, reason, notes,
	created_at, updated_at`

type AppointmentsRepo struct {
	db         *sql.DB
	maxRetries int
}

func NewAppointmentsRepo(db *sql.DB, maxRetries int) *AppointmentsRepo {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &AppointmentsRepo{db: db, maxRetries: maxRetries}
}

func (r *AppointmentsRepo) FindBlocking(ctx context.Context, filter scheduling.BlockingFilter) ([]scheduling.Appointment, error) {
	return findBlocking(ctx, r.db, filter)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id int64) (scheduling.Appointment, error) {
	return getByID(ctx, r.db, id, false)
}

func (r *AppointmentsRepo) GetByPublicID(ctx context.Context, publicID string) (scheduling.Appointment, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return scheduling.Appointment{}, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM appointments WHERE public_id = $1::uuid`, publicID)
	return scanAppointment(row)
}

func (r *AppointmentsRepo) List(ctx context.Context, filter appointments.ListFilter) ([]scheduling.Appointment, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// WithinTx corre fn en una transacción SERIALIZABLE. Si Postgres aborta por
// serialización o deadlock se reintenta hasta maxRetries veces.
func (r *AppointmentsRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, tx appointments.Tx) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.runTx(ctx, fn)
		if !isRetryable(err) {
			return classify(err)
		}

		backoff := time.Duration(attempt+1) * 10 * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

func (r *AppointmentsRepo) runTx(ctx context.Context, fn func(ctx context.Context, tx appointments.Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err := fn(ctx, &pgTx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) FindBlocking(ctx context.Context, filter scheduling.BlockingFilter) ([]scheduling.Appointment, error) {
	return findBlocking(ctx, t.tx, filter)
}

func (t *pgTx) GetByID(ctx context.Context, id int64) (scheduling.Appointment, error) {
	return getByID(ctx, t.tx, id, true)
}

func (t *pgTx) Create(ctx context.Context, a *scheduling.Appointment) error {
	if a == nil {
		return errors.New("appointment required")
	}
	row := t.tx.QueryRowContext(ctx, `
		INSERT INTO appointments (
			public_id, pet_id, vet_id,
			appointment_date, appointment_time, duration_minutes, end_time,
			start_date_time, end_date_time,
			status, is_active, reason, notes,
			created_at, updated_at
		) VALUES ($1::uuid,$2,$3,$4::date,$5::time,$6,$7::time,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id
	`,
		a.PublicID,
		a.PetID,
		nullableID(a.VetID),
		a.Date,
		a.Time,
		a.DurationMinutes,
		a.EndTime,
		a.StartDateTime,
		a.EndDateTime,
		string(a.Status),
		a.IsActive,
		a.Reason,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return row.Scan(&a.ID)
}

func (t *pgTx) Update(ctx context.Context, a scheduling.Appointment) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE appointments
		SET
			pet_id = $2,
			vet_id = $3,
			appointment_date = $4::date,
			appointment_time = $5::time,
			duration_minutes = $6,
			end_time = $7::time,
			start_date_time = $8,
			end_date_time = $9,
			status = $10,
			is_active = $11,
			reason = $12,
			notes = $13,
			updated_at = $14
		WHERE id = $1
	`,
		a.ID,
		a.PetID,
		nullableID(a.VetID),
		a.Date,
		a.Time,
		a.DurationMinutes,
		a.EndTime,
		a.StartDateTime,
		a.EndDateTime,
		string(a.Status),
		a.IsActive,
		a.Reason,
		a.Notes,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func findBlocking(ctx context.Context, q querier, filter scheduling.BlockingFilter) ([]scheduling.Appointment, error) {
	query, args := buildBlockingQuery(filter)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func getByID(ctx context.Context, q querier, id int64, forUpdate bool) (scheduling.Appointment, error) {
	if id <= 0 {
		return scheduling.Appointment{}, ErrNotFound
	}
	query := `SELECT ` + selectColumns + ` FROM appointments WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanAppointment(q.QueryRowContext(ctx, query, id))
}

// whereBuilder arma cláusulas con placeholders numerados.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) raw(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func buildBlockingQuery(filter scheduling.BlockingFilter) (string, []any) {
	var b whereBuilder
	b.raw("is_active")

	statuses := scheduling.BlockingStatuses()
	ph := make([]string, 0, len(statuses))
	for _, st := range statuses {
		b.args = append(b.args, string(st))
		ph = append(ph, fmt.Sprintf("$%d", len(b.args)))
	}
	b.raw("status IN (" + strings.Join(ph, ", ") + ")")

	if filter.VetID != 0 {
		b.add("vet_id = ?", filter.VetID)
	}
	if filter.PetID != 0 {
		b.add("pet_id = ?", filter.PetID)
	}
	if filter.ExcludeID != 0 {
		b.add("id <> ?", filter.ExcludeID)
	}
	if filter.Date != "" {
		b.add("appointment_date = ?::date", filter.Date)
	}
	if filter.Overlapping != nil {
		// [s1,e1) y [s2,e2) chocan si s1 < e2 y e1 > s2
		b.add("start_date_time < ?", filter.Overlapping.End)
		b.add("end_date_time > ?", filter.Overlapping.Start)
	}

	return `SELECT ` + selectColumns + ` FROM appointments` + b.sql() + ` ORDER BY start_date_time ASC, id ASC`, b.args
}

func buildListQuery(filter appointments.ListFilter) (string, []any) {
	var b whereBuilder
	if !filter.IncludeInactive {
		b.raw("is_active")
	}
	if filter.VetID != 0 {
		b.add("vet_id = ?", filter.VetID)
	}
	if filter.PetID != 0 {
		b.add("pet_id = ?", filter.PetID)
	}
	if filter.Date != "" {
		b.add("appointment_date = ?::date", filter.Date)
	}
	if filter.Status != "" {
		b.add("status = ?", string(filter.Status))
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args := append(b.args, filter.NormalizedLimit(), offset)
	query := `SELECT ` + selectColumns + ` FROM appointments` + b.sql() +
		fmt.Sprintf(` ORDER BY start_date_time ASC, id ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (scheduling.Appointment, error) {
	var (
		a      scheduling.Appointment
		vetID  sql.NullInt64
		status string
	)
	if err := row.Scan(
		&a.ID,
		&a.PublicID,
		&a.PetID,
		&vetID,
		&a.Date,
		&a.Time,
		&a.DurationMinutes,
		&a.EndTime,
		&a.StartDateTime,
		&a.EndDateTime,
		&status,
		&a.IsActive,
		&a.Reason,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scheduling.Appointment{}, ErrNotFound
		}
		return scheduling.Appointment{}, err
	}

	if vetID.Valid {
		a.VetID = vetID.Int64
	}
	a.Status = scheduling.Status(status)
	// timestamp sin zona: pgx lo entrega en UTC, que es el reloj de pared del núcleo
	a.StartDateTime = a.StartDateTime.UTC()
	a.EndDateTime = a.EndDateTime.UTC()
	return a, nil
}

func scanAppointments(rows *sql.Rows) ([]scheduling.Appointment, error) {
	out := make([]scheduling.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullableID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}

// classify traduce violaciones de las exclusiones a los errores de conflicto del núcleo.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlStateExclusionViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case constraintVetNoOverlap:
		return scheduling.ErrVeterinarianConflict
	case constraintPetNoOverlap:
		return scheduling.ErrPetConflict
	default:
		return err
	}
}
