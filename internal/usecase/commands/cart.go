package commands

import (
	"context"

	"artisan-store/internal/domain/cart"
	"artisan-store/internal/domain/pricing"
	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound  = errs.New("cart item not found")
	ErrProductOutOfStock = errs.New("product out of stock")
	ErrCartValidation    = errs.New("cart validation error")
)

type CartCommands interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(uow shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: uow}
}

func (c *cartCommandsImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().ProductByID(ctx, productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !snap.InStock {
			return ErrProductOutOfStock
		}

		// Snapshot the effective price at add time; checkout re-reads anyway.
		unitPrice, err := pricing.NewMoney(snap.EffectivePriceCents())
		if err != nil {
			return errs.Mark(err, ErrCartValidation)
		}
		item, err := cart.NewItem(productID, unitPrice, quantity)
		if err != nil {
			return errs.Mark(err, ErrCartValidation)
		}

		cartID, err := tx.Carts().GetOrCreate(ctx, tx.DB(), userID)
		if err != nil {
			return err
		}
		return tx.Carts().UpsertItem(ctx, tx.DB(), cartID, item)
	})
}

func (c *cartCommandsImpl) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, userID, itemID)
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, err := tx.Carts().GetOrCreate(ctx, tx.DB(), userID)
		if err != nil {
			return err
		}
		return tx.Carts().UpdateItemQuantity(ctx, tx.DB(), cartID, itemID, quantity)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, err := tx.Carts().GetOrCreate(ctx, tx.DB(), userID)
		if err != nil {
			return err
		}
		return tx.Carts().RemoveItem(ctx, tx.DB(), cartID, itemID)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrCartItemNotFound
	}
	return err
}

func (c *cartCommandsImpl) Clear(ctx context.Context, userID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cartID, err := tx.Carts().GetOrCreate(ctx, tx.DB(), userID)
		if err != nil {
			return err
		}
		return tx.Carts().Clear(ctx, tx.DB(), cartID)
	})
}
