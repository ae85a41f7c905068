package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/hire"
)

type SubmitBidRequest struct {
	GigID     string   `json:"gig_id" binding:"required"`
	Message   string   `json:"message"`
	BidAmount *float64 `json:"bid_amount" binding:"required"`
}

type BidResponse struct {
	ID           uuid.UUID            `json:"id"`
	GigID        uuid.UUID            `json:"gig_id"`
	FreelancerID uuid.UUID            `json:"freelancer_id"`
	Message      string               `json:"message"`
	BidAmount    float64              `json:"bid_amount"`
	Status       string               `json:"status"`
	Freelancer   *UserSummaryResponse `json:"freelancer,omitempty"`
	Gig          *GigSummaryResponse  `json:"gig,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type HireResponse struct {
	Bid           BidResponse        `json:"bid"`
	Gig           GigSummaryResponse `json:"gig"`
	RejectedCount int64              `json:"rejected_count"`
}

func ToBidResponse(bid *entity.Bid) BidResponse {
	resp := BidResponse{
		ID:           bid.ID,
		GigID:        bid.GigID,
		FreelancerID: bid.FreelancerID,
		Message:      bid.Message,
		BidAmount:    bid.BidAmount,
		Status:       string(bid.Status),
		Freelancer:   toUserSummary(bid.Freelancer),
		CreatedAt:    bid.CreatedAt,
		UpdatedAt:    bid.UpdatedAt,
	}
	if bid.Gig != nil {
		resp.Gig = &GigSummaryResponse{
			ID:     bid.Gig.ID,
			Title:  bid.Gig.Title,
			Budget: bid.Gig.Budget,
			Status: string(bid.Gig.Status),
		}
	}
	return resp
}

func ToBidResponses(bids []*entity.Bid) []BidResponse {
	responses := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		responses = append(responses, ToBidResponse(bid))
	}
	return responses
}

func ToHireResponse(result *hire.Result) HireResponse {
	return HireResponse{
		Bid: ToBidResponse(result.Bid),
		Gig: GigSummaryResponse{
			ID:     result.GigID,
			Title:  result.GigTitle,
			Budget: result.GigBudget,
			Status: string(result.GigStatus),
		},
		RejectedCount: result.Rejected,
	}
}
