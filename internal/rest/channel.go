package rest

import (
	"net/http"

	"github.com/AriAlanPR/image-gallery-saver/api"
	"github.com/AriAlanPR/image-gallery-saver/internal/channel"
	"github.com/gin-gonic/gin"
)

type ChannelHandler struct {
	methods *channel.MethodHandler
}

func NewChannelHandler(methods *channel.MethodHandler) *ChannelHandler {
	return &ChannelHandler{methods: methods}
}

// Invoke carries one method call on the image_gallery_saver channel
func (h *ChannelHandler) Invoke(c *gin.Context) {
	if name := c.Param("channel"); name != channel.Name {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "unknown channel " + name})
		return
	}

	call := api.MethodCall{}
	if err := c.ShouldBindJSON(&call); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	reply := h.methods.Handle(c.Request.Context(), call)
	switch reply.Kind {
	case channel.ReplySuccess:
		c.JSON(http.StatusOK, reply.Result.Map())
	case channel.ReplyNotImplemented:
		c.JSON(http.StatusNotImplemented, api.ErrorResponse{Error: "not implemented", Method: call.Method})
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: reply.Message, Code: reply.Code, Method: call.Method})
	}
}
