package out

import (
	"context"

	"doser/internal/modules/dose/domain"
	"doser/internal/modules/dose/dto"
)

type MethodCatalog interface {
	Lookup(ctx context.Context, key string) (domain.IngestionMethod, error)
	List(ctx context.Context) ([]domain.IngestionMethod, error)
}

// RowPublisher receives every poll snapshot. Implementations must not
// block the poller for longer than a render.
type RowPublisher interface {
	Publish(ctx context.Context, rows []dto.RowOutput)
}
