package response

import (
	"time"

	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OfferResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Percentage int64       `json:"percentage"`
	Scope      string      `json:"scope"`
	CategoryID *uuid.UUID  `json:"category_id,omitempty"`
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
	IsActive   bool        `json:"is_active"`
	StartsAt   time.Time   `json:"starts_at"`
	EndsAt     *time.Time  `json:"ends_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// OfferMutationResponse carries the offer plus an optional repricing warning
// when the propagation pass after the write did not complete.
type OfferMutationResponse struct {
	OfferResponse
	Warning string `json:"warning,omitempty"`
}

func FromOfferMutation(view *queries.OfferView, warning string) *OfferMutationResponse {
	return &OfferMutationResponse{OfferResponse: *FromOfferView(view), Warning: warning}
}

func FromOfferView(view *queries.OfferView) *OfferResponse {
	var resp OfferResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromOfferList(views []*queries.OfferView) []*OfferResponse {
	resp := make([]*OfferResponse, len(views))
	for i, view := range views {
		resp[i] = FromOfferView(view)
	}
	return resp
}
