package admin

import (
	"github.com/timrodina/hostdesk/internal/dto"
	"github.com/timrodina/hostdesk/internal/entity"
)

func toDTO(order *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:          order.ID,
		OrderNumber: order.Number,
		Plan:        string(order.Plan),
		WordPress:   order.WordPress,
		Duration:    order.Duration,
		FullName:    order.FullName,
		Email:       order.Email,
		TotalAmount: order.TotalAmount,
		IsPaid:      order.IsPaid,
		CreatedAt:   order.CreatedAt,
	}
}
