package commands

import (
	"context"
	"log/slog"
	"time"

	"artisan-store/internal/domain/product"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errs.New("product not found")
	ErrProductValidation = errs.New("product validation error")
	ErrUnknownCategory   = errs.New("category does not exist")
)

type ProductInput struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
	PriceCents  int64
	InStock     bool
}

type ProductCommands interface {
	Create(ctx context.Context, input ProductInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productCommandsImpl struct {
	uow      shared.UnitOfWork
	repricer OfferCommands
	cache    cache.Cache
}

func NewProductCommands(uow shared.UnitOfWork, repricer OfferCommands, c cache.Cache) ProductCommands {
	return &productCommandsImpl{uow: uow, repricer: repricer, cache: c}
}

func (p *productCommandsImpl) Create(ctx context.Context, input ProductInput) (uuid.UUID, error) {
	entity, err := product.NewProduct(input.Name, input.Description, input.CategoryID, input.PriceCents, input.InStock)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrProductValidation)
	}

	var id uuid.UUID
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, createErr := tx.Products().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return createErr
		}
		id = created
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return uuid.Nil, ErrUnknownCategory
		}
		return uuid.Nil, err
	}

	p.afterWrite(ctx)
	return id, nil
}

func (p *productCommandsImpl) Update(ctx context.Context, id uuid.UUID, input ProductInput) error {
	validated, err := product.NewProduct(input.Name, input.Description, input.CategoryID, input.PriceCents, input.InStock)
	if err != nil {
		return errs.Mark(err, ErrProductValidation)
	}
	entity, err := product.ReconstructProduct(
		id, validated.Name(), validated.Description(), validated.CategoryID(),
		validated.Price(), nil, validated.InStock(),
		time.Time{}, time.Time{},
	)
	if err != nil {
		return errs.Mark(err, ErrProductValidation)
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Products().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrUnknownCategory
		}
		return err
	}

	p.afterWrite(ctx)
	return nil
}

func (p *productCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Products().Delete(ctx, tx.DB(), id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	p.afterWrite(ctx)
	return nil
}

// Price edits can change what an active offer discounts to, so every catalog
// write is followed by a repricing pass.
func (p *productCommandsImpl) afterWrite(ctx context.Context) {
	if err := p.repricer.RecomputeOfferPrices(ctx); err != nil {
		slog.Warn("offer reprice after catalog write failed", "error", err.Error())
	}
	if err := p.cache.DeletePrefix(ctx, "product:"); err != nil {
		slog.Warn("failed to invalidate product cache", "error", err.Error())
	}
	if err := p.cache.Delete(ctx, "categories:all"); err != nil {
		slog.Warn("failed to invalidate category cache", "error", err.Error())
	}
}
