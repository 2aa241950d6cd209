package in

import (
	"context"
	"time"

	"doser/internal/modules/dose/dto"
	dosein "doser/internal/modules/dose/port/in"
)

type TUIHandler struct {
	usecase dosein.Usecase
}

func NewTUIHandler(usecase dosein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Add(ctx context.Context, strain, method string, elapsed time.Duration) (dto.RowOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{Strain: strain, Method: method, Elapsed: elapsed})
}

func (h TUIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Remove(ctx, id)
}

func (h TUIHandler) Reset(ctx context.Context, id string) (dto.RowOutput, error) {
	return h.usecase.Reset(ctx, id)
}

func (h TUIHandler) ClearExpired(ctx context.Context) (dto.ClearOutput, error) {
	return h.usecase.ClearExpired(ctx)
}

func (h TUIHandler) Rows(ctx context.Context) ([]dto.RowOutput, error) {
	return h.usecase.Rows(ctx)
}

func (h TUIHandler) Methods(ctx context.Context) ([]dto.MethodOutput, error) {
	return h.usecase.Methods(ctx)
}
