package rest

import (
	"context"
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/render"
	"maplemetrics/handler/views"

	"github.com/go-chi/chi"
)

func allMarketsHandler(marketStr core.IMarketStore, tokenStr core.ITokenStore, lockerStr core.IStakeLockerStore, loanStr core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		markets, e := marketStr.All(ctx)
		if e != nil {
			render.BadRequest(w, e)
			return
		}

		marketViews := make([]*views.Market, 0, len(markets))
		for _, m := range markets {
			marketViews = append(marketViews, getMarketView(ctx, m, tokenStr, lockerStr, loanStr))
		}

		render.JSON(w, marketViews)
	}
}

func marketHandler(marketStr core.IMarketStore, tokenStr core.ITokenStore, lockerStr core.IStakeLockerStore, loanStr core.ILoanStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		market, e := marketStr.Find(ctx, core.NormalizeAddress(chi.URLParam(r, "marketID")))
		if e != nil {
			render.BadRequest(w, e)
			return
		}
		if market == nil {
			render.NotFoundRequest(w, errors.New("market not found"))
			return
		}

		render.JSON(w, getMarketView(ctx, market, tokenStr, lockerStr, loanStr))
	}
}

func getMarketView(ctx context.Context, market *core.Market, tokenStr core.ITokenStore, lockerStr core.IStakeLockerStore, loanStr core.ILoanStore) *views.Market {
	view := views.Market{
		Market: *market,
	}

	if token, e := tokenStr.Find(ctx, market.InputToken); e == nil && token != nil {
		view.InputTokenSymbol = token.Symbol
		view.InputTokenDecimals = token.Decimals
	}

	if locker, e := lockerStr.FindByMarket(ctx, market.ID); e == nil {
		view.StakeLockerDetail = locker
	}

	if loans, e := loanStr.ListByMarket(ctx, market.ID); e == nil {
		view.Loans = len(loans)
	}

	return &view
}
