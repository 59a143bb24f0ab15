package rest

import (
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	cfg *core.Config,
	protocolStore core.IProtocolStore,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	stakeLockerStore core.IStakeLockerStore,
	loanStore core.ILoanStore,
	dailySnapshotStore core.IMarketSnapshotStore,
	hourlySnapshotStore core.IMarketSnapshotStore,
	financialsStore core.IFinancialsStore,
	transactionStore core.ITransactionStore) http.Handler {

	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/protocol", protocolHandler(cfg, protocolStore, marketStore))
	router.Get("/markets", allMarketsHandler(marketStore, tokenStore, stakeLockerStore, loanStore))
	router.Get("/markets/{marketID}", marketHandler(marketStore, tokenStore, stakeLockerStore, loanStore))
	router.Get("/markets/{marketID}/snapshots/daily", snapshotsHandler(marketStore, dailySnapshotStore))
	router.Get("/markets/{marketID}/snapshots/hourly", snapshotsHandler(marketStore, hourlySnapshotStore))
	router.Get("/markets/{marketID}/transactions", transactionsHandler(marketStore, transactionStore))
	router.Get("/financials", financialsHandler(financialsStore))
	router.Get("/manifest", ManifestHandler(cfg))

	return router
}
