package transport

import (
	"net/http"

	"github.com/Mubashir-4041/event-compliance-monitor/pkg/predicthq"

	"github.com/gin-gonic/gin"
)

type GatewayHandler struct {
	gateway  predicthq.Fetcher
	defaults predicthq.Query
}

func NewGatewayHandler(gateway predicthq.Fetcher, defaults predicthq.Query) *GatewayHandler {
	return &GatewayHandler{gateway: gateway, defaults: defaults}
}

// GetEvents proxies one PredictHQ search; the token never leaves the server.
func (h *GatewayHandler) GetEvents(c *gin.Context) {
	q := predicthq.Query{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Limit:    c.Query("limit"),
	}

	resp, err := h.gateway.FetchEvents(c.Request.Context(), q.Merge(h.defaults))
	if err != nil {
		writeFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
