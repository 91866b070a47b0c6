package http

import (
	"net/http"

	"grana/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.storage.ListAccounts(r.Context(), s.userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountJSON(a))
	}
	respondJSON(w, http.StatusOK, out)
}

type createAccountRequest struct {
	Name    string `json:"name"`
	Balance string `json:"balance,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var balanceCents int64
	if req.Balance != "" {
		var err error
		balanceCents, err = core.ParseDecimalToCents(req.Balance)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	// the account starts empty; an opening balance is posted as a deposit
	// so the balance history stays complete
	account := &core.Account{UserID: s.userID(r), Name: req.Name}
	if err := s.ledger.CreateAccount(r.Context(), account); err != nil {
		respondError(w, r, err)
		return
	}
	if balanceCents > 0 {
		if _, err := s.ledger.AddFunds(r.Context(), s.userID(r), account.ID, balanceCents, "Saldo inicial"); err != nil {
			respondError(w, r, err)
			return
		}
		account.Balance = core.Money{Cents: balanceCents}
	}
	respondJSON(w, http.StatusCreated, toAccountJSON(*account))
}

type renameAccountRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req renameAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.ledger.RenameAccount(r.Context(), s.userID(r), id, req.Name); err != nil {
		respondError(w, r, err)
		return
	}

	account, err := s.storage.GetAccount(r.Context(), s.userID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountJSON(*account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.ledger.DeleteAccount(r.Context(), s.userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addFundsRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleAddFunds(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req addFundsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	tx, err := s.ledger.AddFunds(r.Context(), s.userID(r), id, cents, req.Description)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionJSON(*tx))
}
