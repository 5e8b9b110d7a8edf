package handler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alrihal/umrah-office/internal/domain"
)

// ExportManifest handles GET /export: the flat booking manifest as CSV, one
// row per booking with trip fields repeated. Read-only.
func (s *Server) ExportManifest(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Manifest(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="manifest.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	header := []string{
		"trip_id", "trip_name", "trip_start_date", "total_cost", "total_paid", "total_net",
		"client_name", "client_phone", "companions", "cost", "paid", "net",
		"returning", "return_date", "boarding_location",
	}
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, row := range rows {
		records = append(records, manifestRecord(row))
	}
	if err := cw.WriteAll(records); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(r.Context(), "write csv export", "error", err)
	}
}

// manifestRecord flattens one manifest row into CSV fields.
func manifestRecord(row domain.ManifestRow) []string {
	return []string{
		row.TripID,
		row.TripName,
		row.TripStartDate,
		strconv.FormatInt(row.TotalCost, 10),
		strconv.FormatInt(row.TotalPaid, 10),
		strconv.FormatInt(row.TotalNet, 10),
		row.ClientName,
		row.ClientPhone,
		strconv.Itoa(row.Companions),
		strconv.FormatInt(row.Cost, 10),
		strconv.FormatInt(row.Paid, 10),
		strconv.FormatInt(row.Net, 10),
		strconv.FormatBool(row.Returning),
		row.ReturnDate,
		row.BoardingLocation,
	}
}
