package meet

import (
	"net/http"
	"smartmeet/infras/otel"
	"smartmeet/internal/domains/booking/model/dto"
	"smartmeet/shared/constant"
	"smartmeet/shared/meetlink"
	"smartmeet/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	otel otel.Otel
}

func New(otel otel.Otel) Handler {
	return Handler{
		otel: otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/meet", func(routerGroup chi.Router) {
		routerGroup.Get("/link", handler.GenerateLink)
	})
}

// GenerateLink issues a fresh meeting link.
// @Summary Generate a meeting link
// @Description Generate a new virtual meeting link without creating a booking.
// @Tags Meet
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.MeetLinkResponse] "Generated meeting link"
// @Failure 401 {object} response.Error
// @Router /v1/meet/link [get]
// @Security BearerAuth
func (handler *Handler) GenerateLink(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GenerateLink")
	defer scope.End()

	res := dto.MeetLinkResponse{
		MeetLink: meetlink.GenerateLink(),
	}

	scope.AddEvent("Meeting link generated successfully")

	response.WithJSON(w, http.StatusOK, res)
}
