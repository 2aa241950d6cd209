package in

import (
	"context"

	"doser/internal/modules/dose/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.RowOutput, error)
	Remove(ctx context.Context, id string) error
	Reset(ctx context.Context, id string) (dto.RowOutput, error)
	ClearExpired(ctx context.Context) (dto.ClearOutput, error)
	Rows(ctx context.Context) ([]dto.RowOutput, error)
	Methods(ctx context.Context) ([]dto.MethodOutput, error)
	Preview(ctx context.Context, input dto.PreviewInput) (dto.RowOutput, error)
}
