package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"beautybar/infras/otel"
	"beautybar/internal/domains/timeoff/model"
	"beautybar/internal/domains/timeoff/model/dto"
	"beautybar/internal/domains/timeoff/repository"
	"beautybar/shared"
	"beautybar/shared/constant"
	gDto "beautybar/shared/dto"
	"beautybar/shared/failure"
)

type TimeOff interface {
	Create(ctx context.Context, req dto.CreateBlockRequest) (dto.BlockResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, from, to string) (dto.GetBlocksResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo repository.TimeOff
	otel otel.Otel
}

func New(repo repository.TimeOff, otel otel.Otel) TimeOff {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBlockRequest) (res dto.BlockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBlock")
	defer scope.End()
	defer scope.TraceIfError(err)

	block, err := req.ToModel()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse time-off block request")

		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time format: %v", err)) //nolint:wrapcheck
	}

	if err = s.repo.InsertChecked(ctx, block); err != nil {
		log.Error().Err(err).Msg("failed to create time-off block")

		return res, err //nolint:wrapcheck
	}

	res.FromModel(block)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, from, to string) (res dto.GetBlocksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBlocks")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if from != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldEndDate,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    from,
			Table:    model.TableName,
		})
	}

	if to != "" {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStartDate,
			Operator: gDto.FilterOperatorLessEq,
			Value:    to,
			Table:    model.TableName,
		})
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count time-off blocks")

		return res, fmt.Errorf("failed to count time-off blocks: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get time-off blocks")

		return res, fmt.Errorf("failed to get time-off blocks: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteBlock")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if time-off block exists")

		return fmt.Errorf("failed to check if time-off block exists: %w", err)
	}

	if !exist {
		return failure.NotFound("time-off block not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete time-off block")

		return fmt.Errorf("failed to delete time-off block: %w", err)
	}

	return nil
}
