package api

import (
	"errors"
	"net/http"

	reqdto "artisan-store/internal/handler/dto/request"
	resdto "artisan-store/internal/handler/dto/response"
	"artisan-store/internal/handler/httperr"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OfferHandler struct {
	cmds commands.OfferCommands
	q    queries.OfferQueries
}

func NewOfferHandler(cmds commands.OfferCommands, q queries.OfferQueries) *OfferHandler {
	return &OfferHandler{cmds: cmds, q: q}
}

// @Summary List offers
// @Description List offers, optionally only active ones (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active offers"
// @Success 200 {array} resdto.OfferResponse
// @Router /admin/offers [get]
func (h *OfferHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	views, err := h.q.List(c.Request.Context(), activeOnly)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list offers", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": resdto.FromOfferList(views)})
}

// @Summary Get offer
// @Description Get an offer by ID (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} resdto.OfferResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offer id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrOfferNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Offer not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load offer", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOfferView(view))
}

// @Summary Create offer
// @Description Create an offer and recompute catalog offer prices (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.OfferRequest true "Offer"
// @Success 201 {object} resdto.OfferMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/offers [post]
func (h *OfferHandler) Create(c *gin.Context) {
	var req reqdto.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), result.ID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load offer", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromOfferMutation(view, result.RepriceWarning))
}

// @Summary Update offer
// @Description Update an offer and recompute catalog offer prices (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.OfferRequest true "Offer"
// @Success 200 {object} resdto.OfferMutationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id} [put]
func (h *OfferHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offer id", nil)
		return
	}
	var req reqdto.OfferRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		h.abortCommandError(c, err)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load offer", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOfferMutation(view, result.RepriceWarning))
}

// @Summary Delete offer
// @Description Delete an offer and recompute catalog offer prices (admin)
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 204 "No Content"
// @Success 200 {object} map[string]string "repricing warning"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/offers/{id} [delete]
func (h *OfferHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid offer id", nil)
		return
	}
	result, err := h.cmds.Delete(c.Request.Context(), id)
	if err != nil {
		h.abortCommandError(c, err)
		return
	}
	if result.RepriceWarning != "" {
		c.JSON(http.StatusOK, gin.H{"warning": result.RepriceWarning})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OfferHandler) abortCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrOfferNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Offer not found", nil)
	case errors.Is(err, commands.ErrOfferValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Offer validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
