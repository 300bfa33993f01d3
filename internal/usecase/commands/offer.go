package commands

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"artisan-store/internal/domain/offer"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOfferNotFound   = errs.New("offer not found")
	ErrOfferValidation = errs.New("offer validation error")
)

type CreateOfferInput struct {
	Name       string
	Percentage int64
	Scope      string
	CategoryID *uuid.UUID
	ProductIDs []uuid.UUID
	IsActive   bool
	StartsAt   time.Time
	EndsAt     *time.Time
}

// OfferMutationResult reports a committed offer write. RepriceWarning is set
// when the follow-up propagation pass failed; the offer row itself stands and
// catalog prices lag until repricing is re-run.
type OfferMutationResult struct {
	ID             uuid.UUID
	RepriceWarning string
}

type OfferCommands interface {
	Create(ctx context.Context, input CreateOfferInput) (*OfferMutationResult, error)
	Update(ctx context.Context, id uuid.UUID, input CreateOfferInput) (*OfferMutationResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*OfferMutationResult, error)
	// RecomputeOfferPrices rebuilds every product's materialized offer price
	// from the currently active offers. Idempotent; safe to re-run anytime.
	RecomputeOfferPrices(ctx context.Context) error
}

type offerCommandsImpl struct {
	uow   shared.UnitOfWork
	cache cache.Cache
	clock clock.Clock
}

func NewOfferCommands(uow shared.UnitOfWork, c cache.Cache, clk clock.Clock) OfferCommands {
	return &offerCommandsImpl{uow: uow, cache: c, clock: clk}
}

func (o *offerCommandsImpl) Create(ctx context.Context, input CreateOfferInput) (*OfferMutationResult, error) {
	entity, err := o.buildOffer(input)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, createErr := tx.Offers().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return createErr
		}
		id = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o.finishMutation(ctx, id), nil
}

func (o *offerCommandsImpl) Update(ctx context.Context, id uuid.UUID, input CreateOfferInput) (*OfferMutationResult, error) {
	entity, err := o.buildOfferWithID(id, input)
	if err != nil {
		return nil, err
	}

	err = o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Offers().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	return o.finishMutation(ctx, id), nil
}

func (o *offerCommandsImpl) Delete(ctx context.Context, id uuid.UUID) (*OfferMutationResult, error) {
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Offers().Delete(ctx, tx.DB(), id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}

	return o.finishMutation(ctx, id), nil
}

func (o *offerCommandsImpl) RecomputeOfferPrices(ctx context.Context) error {
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return o.recomputeInTx(ctx, tx)
	})
	// Invalidate even on failure: a partial pass may have cleared prices that
	// cached listings still show.
	o.invalidateProductCache(ctx)
	return err
}

// finishMutation runs the propagation pass in its own transaction once the
// offer write has committed. A failed pass never unwinds the offer; the caller
// reports the warning and the catalog catches up on the next repricing.
func (o *offerCommandsImpl) finishMutation(ctx context.Context, id uuid.UUID) *OfferMutationResult {
	result := &OfferMutationResult{ID: id}
	if err := o.RecomputeOfferPrices(ctx); err != nil {
		slog.Error("offer price propagation failed", "offer_id", id, "error", err.Error())
		result.RepriceWarning = "offer saved but catalog repricing failed; prices may lag until repricing is re-run"
	}
	return result
}

// Clearing first and applying in descending percentage order makes the
// highest active discount win on overlapping scopes. The IS NULL guard in
// the bulk update keeps later, weaker offers from overwriting it.
func (o *offerCommandsImpl) recomputeInTx(ctx context.Context, tx shared.Tx) error {
	if err := tx.Products().ClearOfferPrices(ctx, tx.DB()); err != nil {
		return err
	}

	active, err := tx.Reads().ActiveOffers(ctx, o.clock.Now())
	if err != nil {
		return err
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Percentage > active[j].Percentage
	})

	for _, snap := range active {
		affected, applyErr := tx.Products().ApplyOfferPricing(ctx, tx.DB(), snap)
		if applyErr != nil {
			return applyErr
		}
		slog.Debug("applied offer pricing", "offer_id", snap.ID, "products", affected)
	}

	return nil
}

func (o *offerCommandsImpl) buildOffer(input CreateOfferInput) (*offer.Offer, error) {
	scope, err := offer.NewScope(input.Scope)
	if err != nil {
		return nil, errs.Mark(err, ErrOfferValidation)
	}

	entity, err := offer.NewOffer(
		input.Name, input.Percentage, scope,
		input.CategoryID, input.ProductIDs,
		input.IsActive, input.StartsAt, input.EndsAt,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrOfferValidation)
	}
	return entity, nil
}

func (o *offerCommandsImpl) buildOfferWithID(id uuid.UUID, input CreateOfferInput) (*offer.Offer, error) {
	validated, err := o.buildOffer(input)
	if err != nil {
		return nil, err
	}
	return offer.ReconstructOffer(
		id, validated.Name(), validated.Percentage(), validated.Scope(),
		validated.CategoryID(), validated.ProductIDs(),
		validated.IsActive(), validated.StartsAt(), validated.EndsAt(),
		time.Time{}, time.Time{},
	), nil
}

func (o *offerCommandsImpl) invalidateProductCache(ctx context.Context) {
	if err := o.cache.DeletePrefix(ctx, "product:"); err != nil {
		slog.Warn("failed to invalidate product cache", "error", err.Error())
	}
}
