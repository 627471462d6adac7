package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Notifier receives realtime change notifications after successful
// writes. Satisfied by *ws.Hub; narrow interface for testability.
type Notifier interface {
	NotifyChange(table, action, id string)
}

// nopNotifier drops notifications; handy in tests.
type nopNotifier struct{}

func (nopNotifier) NotifyChange(table, action, id string) {}

// NopNotifier is a Notifier that does nothing.
var NopNotifier Notifier = nopNotifier{}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// centsFromString parses a decimal currency string ("35.00") into
// integer cents. Cents are the only internal money representation;
// decimals exist at the API boundary only.
func centsFromString(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// centsToString renders integer cents as a two-decimal string.
func centsToString(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// optionalText maps a nullable JSON string to its pgtype form. Empty
// strings collapse to NULL.
func optionalText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// parsePagination reads limit/offset query params with the usual
// defaults and a hard cap.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset = 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
