package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"beautybar/infras/otel"
	"beautybar/infras/postgres"
	"beautybar/internal/domains/service/model"
	gDto "beautybar/shared/dto"
	gRepo "beautybar/shared/repository"
)

type Service interface {
	Insert(ctx context.Context, model model.Service) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Service, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Service]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Service {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Service](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type AddOn interface {
	Insert(ctx context.Context, model model.AddOn) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.AddOn, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.AddOn, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type addOnRepositoryImpl struct {
	gRepo.Repository[model.AddOn]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAddOn(db *postgres.Connection, otel otel.Otel) AddOn {
	return &addOnRepositoryImpl{
		Repository: gRepo.NewRepository[model.AddOn](model.AddOnEntityName, model.AddOnTableName, model.AddOnFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
