package handler

import (
	"errors"
	"net/http"

	"maplemetrics/core"
	"maplemetrics/handler/render"
	"maplemetrics/handler/rest"

	"github.com/go-chi/chi"
)

var errNotFound = errors.New("not found")

// Server server
type Server struct {
	cfg *core.Config

	protocolStore    core.IProtocolStore
	marketStore      core.IMarketStore
	tokenStore       core.ITokenStore
	stakeLockerStore core.IStakeLockerStore
	loanStore        core.ILoanStore
	dailySnapshots   core.IMarketSnapshotStore
	hourlySnapshots  core.IMarketSnapshotStore
	financials       core.IFinancialsStore
	transactionStore core.ITransactionStore
}

// New new server function
func New(
	cfg *core.Config,
	protocolStore core.IProtocolStore,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	stakeLockerStore core.IStakeLockerStore,
	loanStore core.ILoanStore,
	dailySnapshots core.IMarketSnapshotStore,
	hourlySnapshots core.IMarketSnapshotStore,
	financials core.IFinancialsStore,
	transactionStore core.ITransactionStore) Server {

	return Server{
		cfg:              cfg,
		protocolStore:    protocolStore,
		marketStore:      marketStore,
		tokenStore:       tokenStore,
		stakeLockerStore: stakeLockerStore,
		loanStore:        loanStore,
		dailySnapshots:   dailySnapshots,
		hourlySnapshots:  hourlySnapshots,
		financials:       financials,
		transactionStore: transactionStore,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errNotFound)
	})

	r.Mount("/", rest.Handle(
		s.cfg,
		s.protocolStore,
		s.marketStore,
		s.tokenStore,
		s.stakeLockerStore,
		s.loanStore,
		s.dailySnapshots,
		s.hourlySnapshots,
		s.financials,
		s.transactionStore,
	))

	return r
}

// HandleManifest serve the deployment manifest at the site root
func (s Server) HandleManifest() http.HandlerFunc {
	return rest.ManifestHandler(s.cfg)
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
