package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petsafe/pettag-service/internal/domain"
)

// PetRepository defines persistence access for pet profiles.
type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	Update(ctx context.Context, pet *domain.Pet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error)
	GetPublicByID(ctx context.Context, id string) (*domain.PublicPetProfile, error)
}

type petRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository returns a Postgres-backed implementation.
func NewPetRepository(pool *pgxpool.Pool) PetRepository {
	return &petRepository{pool: pool}
}

const petColumns = `
        id, owner_id, name, species, breed, age, color, weight,
        medical_info, allergies, medications, vet_contact, owner_notes,
        photo_url, qr_code_url, is_missing, created_at, updated_at`

func (r *petRepository) Create(ctx context.Context, pet *domain.Pet) error {
	const query = `
        INSERT INTO pets (owner_id, name, species, breed, age, color, weight,
            medical_info, allergies, medications, vet_contact, owner_notes,
            qr_code_url, is_missing)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		pet.OwnerID,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Age,
		pet.Color,
		pet.Weight,
		pet.MedicalInfo,
		pet.Allergies,
		pet.Medications,
		pet.VetContact,
		pet.OwnerNotes,
		pet.QRCodeURL,
		pet.IsMissing,
	).Scan(&pet.ID, &pet.CreatedAt, &pet.UpdatedAt)
}

func (r *petRepository) Update(ctx context.Context, pet *domain.Pet) error {
	// owner_id is deliberately absent: ownership is assigned at creation
	// and never reassigned.
	const query = `
        UPDATE pets SET name=$1, species=$2, breed=$3, age=$4, color=$5,
            weight=$6, medical_info=$7, allergies=$8, medications=$9,
            vet_contact=$10, owner_notes=$11, photo_url=$12, qr_code_url=$13,
            is_missing=$14, updated_at=NOW()
        WHERE id=$15`

	cmd, err := r.pool.Exec(ctx, query,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Age,
		pet.Color,
		pet.Weight,
		pet.MedicalInfo,
		pet.Allergies,
		pet.Medications,
		pet.VetContact,
		pet.OwnerNotes,
		pet.PhotoURL,
		pet.QRCodeURL,
		pet.IsMissing,
		pet.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id=$1`

	var pet domain.Pet
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&pet.ID,
		&pet.OwnerID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Age,
		&pet.Color,
		&pet.Weight,
		&pet.MedicalInfo,
		&pet.Allergies,
		&pet.Medications,
		&pet.VetContact,
		&pet.OwnerNotes,
		&pet.PhotoURL,
		&pet.QRCodeURL,
		&pet.IsMissing,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE owner_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := make([]domain.Pet, 0)
	for rows.Next() {
		var pet domain.Pet
		if err := rows.Scan(
			&pet.ID,
			&pet.OwnerID,
			&pet.Name,
			&pet.Species,
			&pet.Breed,
			&pet.Age,
			&pet.Color,
			&pet.Weight,
			&pet.MedicalInfo,
			&pet.Allergies,
			&pet.Medications,
			&pet.VetContact,
			&pet.OwnerNotes,
			&pet.PhotoURL,
			&pet.QRCodeURL,
			&pet.IsMissing,
			&pet.CreatedAt,
			&pet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

// GetPublicByID joins the owner row so the projection can expose contact
// fields without a second query. The owner's internal id never leaves this
// method.
func (r *petRepository) GetPublicByID(ctx context.Context, id string) (*domain.PublicPetProfile, error) {
	const query = `
        SELECT p.id, p.name, p.species, p.breed, p.age, p.color, p.weight,
               p.medical_info, p.allergies, p.medications, p.vet_contact,
               p.owner_notes, p.photo_url, p.is_missing, u.name, u.phone
        FROM pets p
        JOIN users u ON u.id = p.owner_id
        WHERE p.id=$1`

	var profile domain.PublicPetProfile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.PetID,
		&profile.Name,
		&profile.Species,
		&profile.Breed,
		&profile.Age,
		&profile.Color,
		&profile.Weight,
		&profile.MedicalInfo,
		&profile.Allergies,
		&profile.Medications,
		&profile.VetContact,
		&profile.OwnerNotes,
		&profile.PhotoURL,
		&profile.IsMissing,
		&profile.OwnerName,
		&profile.OwnerPhone,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}
