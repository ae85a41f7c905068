package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
)

type GigHandler struct {
	createGigUC *gig.CreateGigUseCase
	getGigUC    *gig.GetGigUseCase
	listOpenUC  *gig.ListOpenGigsUseCase
	listMyUC    *gig.ListMyGigsUseCase
}

func NewGigHandler(
	createGigUC *gig.CreateGigUseCase,
	getGigUC *gig.GetGigUseCase,
	listOpenUC *gig.ListOpenGigsUseCase,
	listMyUC *gig.ListMyGigsUseCase,
) *GigHandler {
	return &GigHandler{
		createGigUC: createGigUC,
		getGigUC:    getGigUC,
		listOpenUC:  listOpenUC,
		listMyUC:    listMyUC,
	}
}

// ListGigs обрабатывает GET /api/gigs?search=.
func (h *GigHandler) ListGigs(c *gin.Context) {
	gigs, err := h.listOpenUC.Execute(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponses(gigs))
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	created, err := h.createGigUC.Execute(c.Request.Context(), identity, gig.CreateGigInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      *req.Budget,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToGigResponse(created))
}

func (h *GigHandler) ListMyGigs(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	gigs, err := h.listMyUC.Execute(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponses(gigs))
}

func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	found, err := h.getGigUC.Execute(c.Request.Context(), gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponse(found))
}
