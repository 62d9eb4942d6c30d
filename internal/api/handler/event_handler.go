package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/e-hat/PixelShelf-sub001/internal/api/dto"
	"github.com/e-hat/PixelShelf-sub001/internal/pkg/response"
	"github.com/e-hat/PixelShelf-sub001/internal/service"
)

// EventHandler 内部事件接口：其他服务通过它把领域事件交给扇出引擎
type EventHandler struct {
	fanoutService service.FanoutService
}

func NewEventHandler(s service.FanoutService) *EventHandler {
	return &EventHandler{
		fanoutService: s,
	}
}

// Dispatch 接收一条领域事件并触发通知扇出
func (h *EventHandler) Dispatch(c *gin.Context) {
	var req dto.DomainEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	result, err := service.DispatchDomainEvent(c.Request.Context(), h.fanoutService, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
