package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		UserID:        userID,
		ProductID:     in.ProductID,
		Kind:          in.Kind,
		Quantity:      in.Quantity,
		LotID:         in.LotID,
		EnvironmentID: in.EnvironmentID,
		PostStatus:    in.PostStatus,
	}
	if in.Date != "" {
		d, err := kardex.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		input.Date = &d
	}
	mov, err := uc.RegisterMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	resp := dto.ToMovementResponse(mov)
	return &resp, nil
}
