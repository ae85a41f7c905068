package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/hire"
)

type BidHandler struct {
	submitBidUC      *bid.SubmitBidUseCase
	listForGigUC     *bid.ListBidsForGigUseCase
	listForFreelance *bid.ListBidsForFreelancerUseCase
	hireUC           *hire.HireUseCase
}

func NewBidHandler(
	submitBidUC *bid.SubmitBidUseCase,
	listForGigUC *bid.ListBidsForGigUseCase,
	listForFreelance *bid.ListBidsForFreelancerUseCase,
	hireUC *hire.HireUseCase,
) *BidHandler {
	return &BidHandler{
		submitBidUC:      submitBidUC,
		listForGigUC:     listForGigUC,
		listForFreelance: listForFreelance,
		hireUC:           hireUC,
	}
}

func (h *BidHandler) SubmitBid(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	created, err := h.submitBidUC.Execute(c.Request.Context(), identity, bid.SubmitBidInput{
		GigID:     gigID,
		Message:   req.Message,
		BidAmount: *req.BidAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBidResponse(created))
}

// ListBidsForGig обрабатывает GET /api/bids/:gigId. Доступно только владельцу заказа.
func (h *BidHandler) ListBidsForGig(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	gigID, err := uuid.Parse(c.Param("gigId"))
	if err != nil {
		response.BadRequest(c, "некорректный ID заказа")
		return
	}

	bids, err := h.listForGigUC.Execute(c.Request.Context(), identity, gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidResponses(bids))
}

func (h *BidHandler) ListMyBids(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	bids, err := h.listForFreelance.Execute(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBidResponses(bids))
}

// Hire обрабатывает PATCH /api/bids/:bidId/hire.
func (h *BidHandler) Hire(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	bidID, err := uuid.Parse(c.Param("bidId"))
	if err != nil {
		response.BadRequest(c, "некорректный ID отклика")
		return
	}

	result, err := h.hireUC.Execute(c.Request.Context(), identity, bidID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToHireResponse(result))
}
