package in

import (
	"context"
	"time"

	"doser/internal/modules/dose/dto"
	dosein "doser/internal/modules/dose/port/in"
)

type CLIHandler struct {
	usecase dosein.Usecase
}

func NewCLIHandler(usecase dosein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, strain, method string, elapsed time.Duration) (dto.RowOutput, error) {
	return h.usecase.Add(ctx, dto.AddInput{Strain: strain, Method: method, Elapsed: elapsed})
}

func (h CLIHandler) Methods(ctx context.Context) ([]dto.MethodOutput, error) {
	return h.usecase.Methods(ctx)
}

func (h CLIHandler) Preview(ctx context.Context, strain, method string, elapsed time.Duration) (dto.RowOutput, error) {
	return h.usecase.Preview(ctx, dto.PreviewInput{Strain: strain, Method: method, Elapsed: elapsed})
}
