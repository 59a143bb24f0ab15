package rest

import (
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/render"
	"maplemetrics/handler/views"
)

func protocolHandler(cfg *core.Config, protocolStr core.IProtocolStore, marketStr core.IMarketStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		protocol, e := protocolStr.Find(ctx, core.NormalizeAddress(cfg.Protocol.ID))
		if e != nil {
			render.BadRequest(w, e)
			return
		}
		if protocol == nil {
			render.NotFoundRequest(w, errors.New("protocol not found"))
			return
		}

		markets, e := marketStr.All(ctx)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, views.Protocol{
			Protocol: *protocol,
			Markets:  len(markets),
		})
	}
}
