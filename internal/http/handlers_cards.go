package http

import (
	"net/http"

	"grana/internal/core"
)

// handleListCards lists the user's cards. With month and year query
// parameters each card comes with its invoice for that period.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("month") != "" || q.Get("year") != "" {
		s.handleInvoices(w, r)
		return
	}

	cards, err := s.storage.ListCards(r.Context(), s.userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]cardJSON, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardJSON(c))
	}
	respondJSON(w, http.StatusOK, out)
}

type createCardRequest struct {
	Name          string `json:"name"`
	ClosingDay    int    `json:"closing_day"`
	OpeningAmount string `json:"opening_amount,omitempty"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var openingCents int64
	if req.OpeningAmount != "" {
		var err error
		openingCents, err = core.ParseDecimalToCents(req.OpeningAmount)
		if err != nil {
			respondError(w, r, err)
			return
		}
	}

	card := &core.CreditCard{
		UserID:     s.userID(r),
		Name:       req.Name,
		ClosingDay: req.ClosingDay,
	}
	if err := s.ledger.CreateCard(r.Context(), card, openingCents); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCardJSON(*card))
}

type updateCardRequest struct {
	Name       string `json:"name"`
	ClosingDay int    `json:"closing_day"`
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	card := &core.CreditCard{
		ID:         id,
		UserID:     s.userID(r),
		Name:       req.Name,
		ClosingDay: req.ClosingDay,
	}
	if err := card.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.storage.UpdateCard(r.Context(), card); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCardJSON(*card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.storage.DeleteCard(r.Context(), s.userID(r), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCardInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	year, month, err := queryPeriod(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	invoice, transactions, err := s.reports.CardInvoice(r.Context(), s.userID(r), id, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"invoice":      toInvoiceJSON(*invoice),
		"transactions": toTransactionsJSON(transactions),
	})
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	year, month, err := queryPeriod(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	invoices, err := s.reports.CardInvoices(r.Context(), s.userID(r), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]invoiceJSON, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceJSON(inv))
	}
	respondJSON(w, http.StatusOK, out)
}
