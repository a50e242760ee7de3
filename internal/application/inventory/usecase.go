package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/kardex"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos en el kardex de forma transaccional.
// El kardex es append-only: las correcciones se registran con Compensate.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *RegisterMovementUseCase) WithClock(now func() time.Time) *RegisterMovementUseCase {
	uc.now = now
	return uc
}

// MovementInput entrada para registrar un movimiento.
// Date nil = hoy. PostStatus vacío = OPERATIVO.
type MovementInput struct {
	UserID        string
	ProductID     string
	Kind          string
	Quantity      int64
	LotID         *string
	EnvironmentID *string
	Date          *time.Time
	PostStatus    string
}

// DefaultPostStatus estado posterior cuando el movimiento no indica uno.
const DefaultPostStatus = "OPERATIVO"

// RegisterMovement valida la entrada y, dentro de una transacción, bloquea el producto,
// verifica el lote y (en SALIDA) que el stock del alcance cubra la cantidad.
// Devuelve el movimiento con Seq asignado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	kind, err := kardex.ParseKind(input.Kind)
	if err != nil {
		return nil, err
	}
	input.ProductID = strings.TrimSpace(input.ProductID)
	if input.ProductID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	mov := &entity.Movement{
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		Kind:          kind,
		LotID:         kardex.OptionalID(input.LotID),
		EnvironmentID: kardex.OptionalCode(input.EnvironmentID),
		PostStatus:    kardex.NormalizeCode(input.PostStatus),
		CreatedBy:     input.UserID,
	}
	if mov.PostStatus == "" {
		mov.PostStatus = DefaultPostStatus
	}
	if input.Date != nil {
		mov.Date = truncateDay(*input.Date)
	} else {
		mov.Date = today(uc.now)
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		lotRepo repository.LotRepository,
	) error {
		return appendChecked(ctx, mov, movRepo, ledgerRepo, productRepo, lotRepo)
	})
	if err != nil {
		return nil, classify("register movement", err)
	}
	return mov, nil
}

// Compensate registra el movimiento opuesto a seq (misma cantidad, lote y entorno).
// Una SALIDA compensatoria también exige stock suficiente. Cada movimiento se compensa
// una sola vez (domain.ErrDuplicate) y una compensación no se compensa (domain.ErrInvalidInput).
func (uc *RegisterMovementUseCase) Compensate(ctx context.Context, seq int64, userID string) (*entity.Movement, error) {
	if seq <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.LedgerRepository,
		productRepo repository.ProductRepository,
		lotRepo repository.LotRepository,
	) error {
		orig, err := movRepo.GetBySeq(ctx, seq)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.CompensatesSeq != nil {
			return fmt.Errorf("%w: el movimiento %d ya es la compensación de %d", domain.ErrInvalidInput, seq, *orig.CompensatesSeq)
		}
		if err := movRepo.LockProduct(ctx, orig.ProductID); err != nil {
			return err
		}
		prev, err := movRepo.GetCompensation(ctx, seq)
		if err != nil {
			return err
		}
		if prev != nil {
			return fmt.Errorf("%w: el movimiento %d ya fue compensado por %d", domain.ErrDuplicate, seq, prev.Seq)
		}
		opposite := entity.Opposite(orig.Kind)
		if opposite == "" {
			return fmt.Errorf("%w: el movimiento %d no es ENTRADA ni SALIDA", domain.ErrInvalidInput, seq)
		}
		mov = &entity.Movement{
			ProductID:      orig.ProductID,
			Quantity:       orig.Quantity,
			Kind:           opposite,
			LotID:          orig.LotID,
			EnvironmentID:  orig.EnvironmentID,
			Date:           today(uc.now),
			PostStatus:     orig.PostStatus,
			CreatedBy:      userID,
			CompensatesSeq: &orig.Seq,
		}
		return appendChecked(ctx, mov, movRepo, ledgerRepo, productRepo, lotRepo)
	})
	if err != nil {
		return nil, classify("compensate movement", err)
	}
	return mov, nil
}

func appendChecked(
	ctx context.Context,
	mov *entity.Movement,
	movRepo repository.MovementRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
) error {
	// Serializa registros concurrentes del mismo producto antes de leer su stock.
	if err := movRepo.LockProduct(ctx, mov.ProductID); err != nil {
		return err
	}
	product, err := productRepo.GetByID(ctx, mov.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if mov.LotID != nil {
		lot, err := lotRepo.Get(ctx, mov.ProductID, *mov.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: el lote %s no pertenece al producto %s", domain.ErrInvalidInput, *mov.LotID, mov.ProductID)
		}
	}
	if mov.Kind == entity.MovementKindSalida {
		available, err := ledgerRepo.NetStock(ctx, kardex.StockFilter{
			ProductID:     mov.ProductID,
			LotID:         mov.LotID,
			EnvironmentID: mov.EnvironmentID,
		})
		if err != nil {
			return err
		}
		if available < mov.Quantity {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, available, mov.Quantity)
		}
	}
	return movRepo.Append(ctx, mov)
}

// classify deja pasar los errores de dominio y envuelve el resto como domain.ErrStore.
func classify(op string, err error) error {
	for _, known := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrInsufficientStock, domain.ErrDuplicate,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}

// today fecha actual en UTC.
func today(now func() time.Time) time.Time {
	return truncateDay(now().UTC())
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
