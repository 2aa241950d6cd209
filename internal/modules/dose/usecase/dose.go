package usecase

import (
	"context"
	"fmt"
	"strings"

	"doser/internal/modules/dose/domain"
	"doser/internal/modules/dose/dto"
	dosein "doser/internal/modules/dose/port/in"
	doseout "doser/internal/modules/dose/port/out"
	"doser/internal/modules/dose/service"
	apperrors "doser/internal/platform/errors"
)

type Interactor struct {
	svc     *service.DoseManager
	catalog doseout.MethodCatalog
}

func NewInteractor(svc *service.DoseManager, catalog doseout.MethodCatalog) dosein.Usecase {
	return &Interactor{svc: svc, catalog: catalog}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.RowOutput, error) {
	strain := strings.TrimSpace(input.Strain)
	if strain == "" {
		return dto.RowOutput{}, fmt.Errorf("strain is required: %w", apperrors.ErrInvalidInput)
	}
	if input.Elapsed < 0 {
		return dto.RowOutput{}, fmt.Errorf("elapsed time must be non-negative: %w", apperrors.ErrInvalidInput)
	}
	method, err := i.catalog.Lookup(ctx, input.Method)
	if err != nil {
		return dto.RowOutput{}, err
	}
	now := i.svc.Now()
	row := i.svc.Add(strain, method, now.Add(-input.Elapsed))
	return service.Describe(row, now), nil
}

func (i *Interactor) Remove(_ context.Context, id string) error {
	return i.svc.Remove(id)
}

func (i *Interactor) Reset(_ context.Context, id string) (dto.RowOutput, error) {
	row, err := i.svc.Reset(id)
	if err != nil {
		return dto.RowOutput{}, err
	}
	return service.Describe(row, row.Dose.Ingested), nil
}

func (i *Interactor) ClearExpired(_ context.Context) (dto.ClearOutput, error) {
	removed := i.svc.ClearExpired()
	return dto.ClearOutput{Removed: len(removed), Remaining: i.svc.Len()}, nil
}

func (i *Interactor) Rows(_ context.Context) ([]dto.RowOutput, error) {
	return i.svc.Snapshot(), nil
}

func (i *Interactor) Methods(ctx context.Context) ([]dto.MethodOutput, error) {
	methods, err := i.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MethodOutput, len(methods))
	for idx, m := range methods {
		out[idx] = dto.MethodOutput{Key: m.Key, Name: m.Name, Onset: m.Onset, Duration: m.Duration}
	}
	return out, nil
}

// Preview derives display fields for a dose that is not added to the
// collection.
func (i *Interactor) Preview(ctx context.Context, input dto.PreviewInput) (dto.RowOutput, error) {
	if input.Elapsed < 0 {
		return dto.RowOutput{}, fmt.Errorf("elapsed time must be non-negative: %w", apperrors.ErrInvalidInput)
	}
	method, err := i.catalog.Lookup(ctx, input.Method)
	if err != nil {
		return dto.RowOutput{}, err
	}
	strain := strings.TrimSpace(input.Strain)
	if strain == "" {
		strain = method.Name
	}
	now := i.svc.Now()
	row := service.Row{Dose: domain.NewDose(strain, method, now.Add(-input.Elapsed))}
	return service.Describe(row, now), nil
}
