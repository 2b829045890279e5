package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/piyushdaiya/seed-checker/internal/ledger"
)

// ledgerReader is the part of ledger.Store the engine serves.
type ledgerReader interface {
	Latest(ctx context.Context, address string) (*ledger.Record, error)
	Hits(ctx context.Context, limit int) ([]ledger.Record, error)
}

func newMux(store ledgerReader) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", loggingMiddleware(checkAddressHandler(store)))
	mux.HandleFunc("/hits", loggingMiddleware(hitsHandler(store)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

func loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		log.Printf("📡 [REQ] %s %s took %v", r.Method, r.URL.Path, time.Since(start))
	}
}

func checkAddressHandler(store ledgerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if address == "" {
			http.Error(w, "Missing address parameter", http.StatusBadRequest)
			return
		}

		rec, err := store.Latest(r.Context(), address)
		if err != nil {
			log.Printf("❌ [ENGINE] lookup %s: %v", address, err)
			http.Error(w, "ledger unavailable", http.StatusInternalServerError)
			return
		}

		response := map[string]any{"seen": rec != nil, "address": address}
		if rec != nil {
			response["kind"] = rec.Kind
			response["source"] = rec.Source
			response["balance"] = rec.Balance
			response["symbol"] = rec.Symbol
			response["run_id"] = rec.RunID
			response["recorded_at"] = rec.RecordedAt
		}
		writeJSON(w, response)
	}
}

func hitsHandler(store ledgerReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
				return
			}
			limit = n
		}

		hits, err := store.Hits(r.Context(), limit)
		if err != nil {
			log.Printf("❌ [ENGINE] list hits: %v", err)
			http.Error(w, "ledger unavailable", http.StatusInternalServerError)
			return
		}
		if hits == nil {
			hits = []ledger.Record{}
		}
		writeJSON(w, map[string]any{"count": len(hits), "hits": hits})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ [ENGINE] encode response: %v", err)
	}
}
