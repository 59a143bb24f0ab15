package rest

import (
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/param"
	"maplemetrics/handler/render"

	"github.com/go-chi/chi"
)

func transactionsHandler(marketStr core.IMarketStore, transactionStr core.ITransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Limit int `schema:"limit"`
		}
		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}
		if params.Limit <= 0 {
			params.Limit = defaultListLimit
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

		transactions, e := transactionStr.ListByMarket(ctx, marketID, params.Limit)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		render.JSON(w, transactions)
	}
}
