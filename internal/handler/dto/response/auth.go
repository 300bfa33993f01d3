package response

import (
	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
)

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
}

type CurrentUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

func FromAuthorizedUser(view *queries.AuthorizedUserView) *CurrentUserResponse {
	return &CurrentUserResponse{
		ID:       view.ID,
		Email:    view.Email,
		Role:     view.Role,
		IsActive: view.IsActive,
	}
}
