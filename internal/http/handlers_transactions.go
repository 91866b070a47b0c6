package http

import (
	"net/http"

	"grana/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	year, month, err := queryPeriod(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	transactions, err := s.storage.ListTransactions(r.Context(), s.userID(r), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionsJSON(transactions))
}

type createTransactionRequest struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Date          string `json:"date,omitempty"`
	OriginKind    string `json:"origin_kind"`
	OriginID      int64  `json:"origin_id"`
	CategoryID    int64  `json:"category_id,omitempty"`
	Recurring     bool   `json:"recurring,omitempty"`
	AttachmentRef string `json:"attachment_ref,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var date core.Date
	if req.Date != "" {
		date, err = core.ParseDate(req.Date)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	tx := &core.Transaction{
		UserID:        s.userID(r),
		CategoryID:    req.CategoryID,
		Description:   req.Description,
		Amount:        core.Money{Cents: cents},
		Kind:          core.TxKind(req.Kind),
		Date:          date,
		Origin:        core.Origin{Kind: core.OriginKind(req.OriginKind), ID: req.OriginID},
		Recurring:     req.Recurring,
		AttachmentRef: req.AttachmentRef,
	}
	if err := s.ledger.CreateTransaction(r.Context(), tx); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionJSON(*tx))
}

type updateTransactionRequest struct {
	Description *string `json:"description,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Date        *string `json:"date,omitempty"`
	Recurring   *bool   `json:"recurring,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	OriginKind  *string `json:"origin_kind,omitempty"`
	OriginID    *int64  `json:"origin_id,omitempty"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	upd := core.TransactionUpdate{
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Recurring:   req.Recurring,
	}
	if req.Date != nil {
		date, err := core.ParseDate(*req.Date)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.Date = &date
	}
	if req.Amount != nil {
		cents, err := core.ParseDecimalToCents(*req.Amount)
		if err != nil {
			respondError(w, r, err)
			return
		}
		upd.AmountCents = &cents
	}
	if req.Kind != nil {
		kind := core.TxKind(*req.Kind)
		upd.Kind = &kind
	}
	if req.OriginKind != nil || req.OriginID != nil {
		origin := core.Origin{}
		if req.OriginKind != nil {
			origin.Kind = core.OriginKind(*req.OriginKind)
		}
		if req.OriginID != nil {
			origin.ID = *req.OriginID
		}
		upd.Origin = &origin
	}

	tx, err := s.ledger.UpdateTransaction(r.Context(), s.userID(r), id, upd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(*tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), s.userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
