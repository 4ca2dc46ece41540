package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Las exclusiones por veterinario y por mascota garantizan en la base que dos
// citas activas bloqueantes nunca se solapen, aunque dos requests compitan.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id               BIGSERIAL PRIMARY KEY,
		public_id        UUID NOT NULL UNIQUE,
		pet_id           BIGINT NOT NULL,
		vet_id           BIGINT NULL,
		appointment_date DATE NOT NULL,
		appointment_time TIME NOT NULL,
		duration_minutes INTEGER NOT NULL,
		end_time         TIME NOT NULL,
		start_date_time  TIMESTAMP NOT NULL,
		end_date_time    TIMESTAMP NOT NULL,
		status           TEXT NOT NULL DEFAULT 'programada',
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		reason           TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),

		CONSTRAINT appointments_duration_range CHECK (duration_minutes BETWEEN 5 AND 480),
		CONSTRAINT appointments_interval_valid CHECK (end_date_time > start_date_time),
		CONSTRAINT appointments_status_valid CHECK (
			status IN ('programada', 'confirmada', 'completada', 'cancelada', 'no_asistio')
		),
		CONSTRAINT appointments_vet_no_overlap EXCLUDE USING gist (
			vet_id WITH =,
			tsrange(start_date_time, end_date_time, '[)') WITH &&
		) WHERE (vet_id IS NOT NULL AND is_active AND status IN ('programada', 'completada')),
		CONSTRAINT appointments_pet_no_overlap EXCLUDE USING gist (
			pet_id WITH =,
			tsrange(start_date_time, end_date_time, '[)') WITH &&
		) WHERE (vet_id IS NOT NULL AND is_active AND status IN ('programada', 'completada'))
	)`,

	// tablas creadas antes: la exclusión por mascota no aplica a citas sin veterinario
	`DO $$
	BEGIN
		IF EXISTS (
			SELECT 1 FROM pg_constraint
			WHERE conname = 'appointments_pet_no_overlap'
			  AND pg_get_constraintdef(oid) NOT LIKE '%vet_id IS NOT NULL%'
		) THEN
			ALTER TABLE appointments DROP CONSTRAINT appointments_pet_no_overlap;
			ALTER TABLE appointments ADD CONSTRAINT appointments_pet_no_overlap EXCLUDE USING gist (
				pet_id WITH =,
				tsrange(start_date_time, end_date_time, '[)') WITH &&
			) WHERE (vet_id IS NOT NULL AND is_active AND status IN ('programada', 'completada'));
		END IF;
	END $$`,

	`CREATE INDEX IF NOT EXISTS appointments_vet_date_idx ON appointments (vet_id, appointment_date)`,
	`CREATE INDEX IF NOT EXISTS appointments_pet_date_idx ON appointments (pet_id, appointment_date)`,
}

// Migrate aplica el esquema. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
