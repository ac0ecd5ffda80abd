package repository

import (
	"context"
	"database/sql"
	"fmt"

	"studio-api/core/database"
	coreentity "studio-api/core/entity"
	"studio-api/modules/client/entity"

	"github.com/google/uuid"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, page, pageSize int) (*coreentity.Pagination[entity.Client], error)
}

type clientRepository struct {
	db database.IDatabase
}

func NewClientRepository(db database.IDatabase) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, full_name, first_name, last_name, company_name, email, phone, created_at, updated_at`

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	var client entity.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *entity.Client) (*entity.Client, error) {
	query := `
		INSERT INTO clients (full_name, first_name, last_name, company_name, email, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		client.FullName, client.FirstName, client.LastName,
		client.CompanyName, client.Email, client.Phone,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *entity.Client) error {
	query := `
		UPDATE clients
		SET full_name = $1, first_name = $2, last_name = $3, company_name = $4,
		    email = $5, phone = $6, updated_at = NOW()
		WHERE id = $7
	`
	result, err := r.db.SQLx().ExecContext(ctx, query,
		client.FullName, client.FirstName, client.LastName,
		client.CompanyName, client.Email, client.Phone, client.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("client with id %s not found", client.ID)
	}
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`
	return r.db.ExecContext(ctx, query, id)
}

func (r *clientRepository) List(ctx context.Context, search string, page, pageSize int) (*coreentity.Pagination[entity.Client], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE full_name ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1 OR company_name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM clients ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		clientColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	var clients []entity.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &coreentity.Pagination[entity.Client]{
		Items:      clients,
		TotalItems: total,
		TotalPages: totalPages,
		PageNumber: page,
		PageSize:   pageSize,
	}, nil
}
