package service

import (
	"context"

	coreentity "studio-api/core/entity"
	"studio-api/core/errors"
	"studio-api/core/logger"
	"studio-api/modules/client/dto"
	"studio-api/modules/client/entity"
	"studio-api/modules/client/repository"

	"github.com/google/uuid"
)

type ClientService interface {
	Create(ctx context.Context, req *dto.UpsertClientRequest) (*dto.ClientResponse, *errors.AppError)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, *errors.AppError)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpsertClientRequest) (*dto.ClientResponse, *errors.AppError)
	Delete(ctx context.Context, id uuid.UUID) *errors.AppError
	List(ctx context.Context, search string, page, pageSize int) (*coreentity.Pagination[dto.ClientResponse], *errors.AppError)
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

func (s *clientService) Create(ctx context.Context, req *dto.UpsertClientRequest) (*dto.ClientResponse, *errors.AppError) {
	client := &entity.Client{
		FullName:    req.FullName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if client.DisplayName() == entity.UnknownClientName {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "at least one name field is required", nil)
	}

	created, err := s.repo.Create(ctx, client)
	if err != nil {
		logger.Error("ClientService:Create:RepoError", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create client", err)
	}
	return toResponse(created), nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, *errors.AppError) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load client", err)
	}
	if client == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "client not found", nil)
	}
	return toResponse(client), nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req *dto.UpsertClientRequest) (*dto.ClientResponse, *errors.AppError) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load client", err)
	}
	if client == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "client not found", nil)
	}

	if req.FullName != nil {
		client.FullName = req.FullName
	}
	if req.FirstName != nil {
		client.FirstName = req.FirstName
	}
	if req.LastName != nil {
		client.LastName = req.LastName
	}
	if req.CompanyName != nil {
		client.CompanyName = req.CompanyName
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}

	if err := s.repo.Update(ctx, client); err != nil {
		logger.Error("ClientService:Update:RepoError", "client_id", id, "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update client", err)
	}
	return toResponse(client), nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) *errors.AppError {
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("ClientService:Delete:RepoError", "client_id", id, "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete client", err)
	}
	return nil
}

func (s *clientService) List(ctx context.Context, search string, page, pageSize int) (*coreentity.Pagination[dto.ClientResponse], *errors.AppError) {
	result, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		logger.Error("ClientService:List:RepoError", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list clients", err)
	}

	items := make([]dto.ClientResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, *toResponse(&result.Items[i]))
	}
	return &coreentity.Pagination[dto.ClientResponse]{
		Items:      items,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
		PageNumber: result.PageNumber,
		PageSize:   result.PageSize,
	}, nil
}

func toResponse(client *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          client.ID.String(),
		DisplayName: client.DisplayName(),
		FullName:    client.FullName,
		FirstName:   client.FirstName,
		LastName:    client.LastName,
		CompanyName: client.CompanyName,
		Email:       client.Email,
		Phone:       client.Phone,
	}
}
