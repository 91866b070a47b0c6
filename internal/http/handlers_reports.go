package http

import (
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := queryPeriod(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	d, err := s.reports.Dashboard(r.Context(), s.userID(r), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, dashboardJSON{
		TotalBalance:    money(d.TotalBalance),
		Summary:         toSummaryJSON(d.Summary),
		PercentConsumed: d.PercentConsumed,
		Mood:            string(d.Mood),
		Categories:      toCategorySummariesJSON(d.Categories),
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := queryPeriod(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := s.reports.MonthlyReport(r.Context(), s.userID(r), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"year":         report.Year,
		"month":        report.Month,
		"summary":      toSummaryJSON(report.Summary),
		"categories":   toCategorySummariesJSON(report.Categories),
		"transactions": toTransactionsJSON(report.Transactions),
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat turns a free-text sentence into a transaction proposal. The
// proposal is returned to the client for confirmation, never posted
// directly.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "assistant not configured",
		})
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := s.userID(r)
	categories, err := s.storage.ListCategories(r.Context(), userID, "")
	if err != nil {
		respondError(w, r, err)
		return
	}
	accounts, err := s.storage.ListAccounts(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	proposal, err := s.assistant.Propose(r.Context(), req.Message, categories, accounts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"proposal": proposal})
}
