package commands

import (
	"context"
	"log/slog"
	"time"

	"artisan-store/internal/domain/category"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound   = errs.New("category not found")
	ErrCategoryNameTaken  = errs.New("category name already in use")
	ErrCategoryInUse      = errs.New("category still referenced by products")
	ErrCategoryValidation = errs.New("category validation error")
)

type CategoryCommands interface {
	Create(ctx context.Context, name, description string) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, name, description string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.Cache
}

func NewCategoryCommands(uow shared.UnitOfWork, c cache.Cache) CategoryCommands {
	return &categoryCommandsImpl{uow: uow, cache: c}
}

func (c *categoryCommandsImpl) Create(ctx context.Context, name, description string) (uuid.UUID, error) {
	entity, err := category.NewCategory(name, description)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrCategoryValidation)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, createErr := tx.Categories().Create(ctx, tx.DB(), entity.Name(), entity.Description())
		if createErr != nil {
			return createErr
		}
		id = created
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrCategoryNameTaken
		}
		return uuid.Nil, err
	}

	c.invalidate(ctx)
	return id, nil
}

func (c *categoryCommandsImpl) Update(ctx context.Context, id uuid.UUID, name, description string) error {
	entity := category.ReconstructCategory(id, "", "", time.Time{}, time.Time{})
	if err := entity.Rename(name, description); err != nil {
		return errs.Mark(err, ErrCategoryValidation)
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Categories().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCategoryNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return ErrCategoryNameTaken
		}
		return err
	}

	c.invalidate(ctx)
	return nil
}

func (c *categoryCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Categories().Delete(ctx, tx.DB(), id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCategoryNotFound
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return ErrCategoryInUse
		}
		return err
	}

	c.invalidate(ctx)
	return nil
}

func (c *categoryCommandsImpl) invalidate(ctx context.Context) {
	if err := c.cache.Delete(ctx, "categories:all"); err != nil {
		slog.Warn("failed to invalidate category cache", "error", err.Error())
	}
}
