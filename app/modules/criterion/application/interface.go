package criterionservice

import (
	"context"

	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	criteriondb "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/infrastructure/repositories"
)

// Service manages scoring criteria.
type Service interface {
	CreateCriterion(ctx context.Context, def criteriondomain.Definition) (*criteriondb.Criterion, error)
	GetCriterion(ctx context.Context, id string) (*criteriondb.Criterion, error)
	ListCriteria(ctx context.Context, activeOnly bool) ([]criteriondb.Criterion, error)
}
