package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"artisan-dex/chain"
	"artisan-dex/core"
	"artisan-dex/core/model"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type auctionView struct {
	*model.Auction
	EncryptedBidPreview string `json:"encryptedBidPreview"`
	CanClose            bool   `json:"canClose"`
}

type listResponse struct {
	Auctions   []auctionView      `json:"auctions"`
	Stats      model.AuctionStats `json:"stats"`
	Refreshing bool               `json:"refreshing"`
	Search     string             `json:"search"`
	Tab        model.Tab          `json:"tab"`
}

type sessionResponse struct {
	model.SignatureSession
	Connected bool   `json:"connected"`
	Address   string `json:"address"`
}

type revealResponse struct {
	Id  string  `json:"id"`
	Bid float64 `json:"bid"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) view(a *model.Auction) auctionView {
	return auctionView{
		Auction:             a,
		EncryptedBidPreview: core.BidPreview(a.EncryptedBid),
		CanClose:            s.market.CanClose(a),
	}
}

func (s *Server) actionContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

func (s *Server) handleListAuctions(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	tab := model.ParseTab(r.URL.Query().Get("tab"))

	filtered := s.market.Filter(search, tab)
	views := make([]auctionView, 0, len(filtered))
	for _, a := range filtered {
		views = append(views, s.view(a))
	}
	writeJSON(w, http.StatusOK, listResponse{
		Auctions:   views,
		Stats:      s.market.Stats(),
		Refreshing: s.market.Refreshing(),
		Search:     search,
		Tab:        tab,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.actionContext(r)
	defer cancel()
	if err := s.market.Load(ctx); err != nil {
		writeError(w, err)
		return
	}
	s.handleListAuctions(w, r)
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	a, ok := s.market.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, core.ErrorNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.view(a))
}

func (s *Server) handleCreateAuction(w http.ResponseWriter, r *http.Request) {
	var params core.CreateAuctionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	ctx, cancel := s.actionContext(r)
	defer cancel()
	a, err := s.market.Create(ctx, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.view(a))
}

func (s *Server) handleCloseAuction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := s.actionContext(r)
	defer cancel()
	if err := s.market.Close(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	if a, ok := s.market.Get(id); ok {
		writeJSON(w, http.StatusOK, s.view(a))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevealBid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := s.actionContext(r)
	defer cancel()
	bid, err := s.market.RevealAuction(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealResponse{Id: id, Bid: bid})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	wallet := s.market.Wallet()
	writeJSON(w, http.StatusOK, sessionResponse{
		SignatureSession: s.market.Session(),
		Connected:        wallet.Connected(),
		Address:          wallet.Address(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.market.Board().Current())
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, core.ErrorInvalidAuction):
		return http.StatusBadRequest
	case errors.Is(err, chain.ErrWalletNotConnected):
		return http.StatusUnauthorized
	case errors.Is(err, chain.ErrUserRejected):
		return http.StatusForbidden
	case errors.Is(err, core.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, chain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusCode(err), errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("write response err: %v", err)
	}
}
