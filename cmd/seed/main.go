package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinic-backend/internal/db"
	"github.com/clinicore/clinic-backend/internal/staff"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedPractitioners(context.Background(), pool, 20); err != nil {
		log.Fatalf("seed practitioners: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedMedicines(context.Background(), pool, 150); err != nil {
		log.Fatalf("seed medicines: %v", err)
	}

	log.Println("seed complete")
}

func seedPractitioners(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d practitioners", count)

	specialties := []string{
		"General Practice",
		"Cardiology",
		"Dermatology",
		"Pediatrics",
		"Gynecology",
		"Orthopedics",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	adminHash, err := staff.HashCredential("changeme-admin")
	if err != nil {
		return err
	}

	// One known admin so the API is usable right after seeding.
	_, err = tx.Exec(ctx, `
		INSERT INTO practitioners (first_name, last_name, role, specialty, phone, email, active, credential_hash, created_at, updated_at)
		VALUES ('Admin', 'User', 'admin', NULL, $1, 'admin@clinic.local', TRUE, $2, now(), now())
		ON CONFLICT (email) DO NOTHING
	`, gofakeit.Phone(), adminHash)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]
		role := "doctor"
		if i%5 == 4 {
			role = "secretary"
		}

		hash, err := staff.HashCredential(gofakeit.Password(true, true, true, false, false, 16))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO practitioners (first_name, last_name, role, specialty, phone, email, active, credential_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, now(), now())
			ON CONFLICT (email) DO NOTHING
		`, gofakeit.FirstName(), gofakeit.LastName(), role, spec, gofakeit.Phone(), gofakeit.Email(), hash)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("practitioners seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500
	bloodTypes := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			gender := "M"
			if gofakeit.Bool() {
				gender = "F"
			}
			dob := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			email := gofakeit.Email()
			blood := bloodTypes[gofakeit.Number(0, len(bloodTypes)-1)]

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, last_name, date_of_birth, gender, phone, email, address, emergency_contact, blood_type, allergies, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '{}', now(), now())
			`, id, gofakeit.FirstName(), gofakeit.LastName(), dob, gender, gofakeit.Phone(), email, gofakeit.Address().Address, gofakeit.Phone(), blood)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

func seedMedicines(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d medicines", count)

	categories := []string{"medication", "medical-supply", "equipment", "consumable", "diagnostic"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		category := categories[gofakeit.Number(0, len(categories)-1)]
		current := gofakeit.Number(0, 500)
		minStock := gofakeit.Number(5, 50)
		price := int64(gofakeit.Number(100, 500000))
		expiry := gofakeit.DateRange(
			time.Now().AddDate(0, -2, 0),
			time.Now().AddDate(3, 0, 0),
		)

		_, err := tx.Exec(ctx, `
			INSERT INTO medicines (id, name, category, manufacturer, batch_number, current_stock, min_stock, unit_price_cents, expiry_date, location, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		`, id, gofakeit.ProductName(), category, gofakeit.Company(), gofakeit.LetterN(8), current, minStock, price, expiry, gofakeit.RandomString([]string{"Shelf A", "Shelf B", "Cold Room", "Cabinet 3"}))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("medicines seeded")
	return nil
}
