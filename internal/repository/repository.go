// Package repository implements database access for the reservation log.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thecajunmenu/reservations/internal/model"
)

// ReservationRepository persists processed reservations for the operator's
// records. Writes happen after dispatch and never block the response.
type ReservationRepository struct {
	db *pgxpool.Pool
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts one audit row for a processed reservation and returns it
// with a generated UUID.
func (r *ReservationRepository) Create(
	ctx context.Context,
	req model.ReservationRequest,
	normalizedPhone string,
	result model.DispatchResult,
) (*model.ReservationRecord, error) {
	rec := &model.ReservationRecord{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     normalizedPhone,
		Date:      req.Date,
		Time:      req.Time,
		Guests:    req.Guests.String(),
		Notes:     req.Notes,
		EmailSent: result.Email.Success,
		SMSSent:   result.SMS.Success,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO reservations
		 (id, name, email, phone, reservation_date, reservation_time, guests, notes, email_sent, sms_sent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Name, rec.Email, rec.Phone, rec.Date, rec.Time,
		rec.Guests, rec.Notes, rec.EmailSent, rec.SMSSent, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	return rec, nil
}

// List returns all logged reservations, newest first.
func (r *ReservationRepository) List(ctx context.Context) ([]model.ReservationRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, phone, reservation_date, reservation_time, guests, notes, email_sent, sms_sent, created_at
		 FROM reservations
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var records []model.ReservationRecord
	for rows.Next() {
		var rec model.ReservationRecord
		err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Date, &rec.Time,
			&rec.Guests, &rec.Notes, &rec.EmailSent, &rec.SMSSent, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
