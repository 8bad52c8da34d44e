package http

import (
	"github.com/gin-gonic/gin"

	"station-ops-bot/internal/model"
	"station-ops-bot/pkg/response"
)

// Process godoc
// @Summary     Log entries from a free-text message
// @Description Splits the text on semicolons, classifies every segment and stores the resulting records. Segments that fail are reported under skipped.
// @Tags        Entries
// @Accept      json
// @Produce     json
// @Param       body body processReq true "Message"
// @Success     200  {object} processResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     429  {object} response.Resp "Too Many Requests"
// @Failure     500  {object} response.Resp "Internal Server Error"
// @Router      /api/v1/messages [POST]
func (h *handler) Process(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processProcessReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	sc := model.Scope{ChatID: req.ChatID, Source: model.SourceHTTP}
	output, err := h.uc.Process(ctx, sc, req.toInput())
	if err != nil {
		mapped := h.mapError(err)
		if mapped == nil {
			h.l.Errorf(ctx, "uc.Process: %v", err)
			response.InternalError(c, err)
			return
		}
		response.Error(c, mapped, map[string]any{"reply": output.Reply})
		return
	}

	response.OK(c, h.newProcessResp(output))
}
