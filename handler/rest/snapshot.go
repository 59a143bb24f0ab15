package rest

import (
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/param"
	"maplemetrics/handler/render"

	"github.com/go-chi/chi"
)

const defaultListLimit = 100

type rangeParams struct {
	From  int64 `schema:"from"`
	To    int64 `schema:"to"`
	Limit int   `schema:"limit"`
}

func (p *rangeParams) limitOrDefault() int {
	if p.Limit <= 0 {
		return defaultListLimit
	}
	return p.Limit
}

func snapshotsHandler(marketStr core.IMarketStore, snapshotStr core.IMarketSnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params rangeParams
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		marketID := core.NormalizeAddress(chi.URLParam(r, "marketID"))
		market, e := marketStr.Find(ctx, marketID)
		if e != nil {
			render.BadRequest(w, e)
			return
		}
		if market == nil {
			render.NotFoundRequest(w, errors.New("market not found"))
			return
		}

		snapshots, e := snapshotStr.ListByMarket(ctx, marketID, params.From, params.To, params.limitOrDefault())
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, snapshots)
	}
}

func financialsHandler(financialsStr core.IFinancialsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params rangeParams
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		snapshots, e := financialsStr.List(r.Context(), params.From, params.To, params.limitOrDefault())
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, snapshots)
	}
}
