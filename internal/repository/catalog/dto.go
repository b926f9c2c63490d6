package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storesearch/internal/db"
	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
)

// entryToCandidate maps an index hit's hash fields onto a Candidate.
// Unparseable numeric or time fields degrade to zero values; the ranker
// treats those as "unknown" rather than failing the request.
func entryToCandidate(e db.SearchEntry, tenantID uuid.UUID) candidate.Candidate {
	return candidate.Candidate{
		ID:          strings.TrimPrefix(e.Key, docKeyPrefix(tenantID)),
		Title:       e.Fields["title"],
		Content:     e.Fields["content"],
		StockStatus: parseStockStatus(e.Fields["stock_status"]),
		Price:       parseFloat(e.Fields["price"]),
		TotalSales:  parseInt(e.Fields["total_sales"]),
		CreatedAt:   parseUnix(e.Fields["created_at"]),
		ModifiedAt:  parseUnix(e.Fields["modified_at"]),
	}
}

func parseStockStatus(s string) candidate.StockStatus {
	switch candidate.StockStatus(s) {
	case candidate.StockIn, candidate.StockBackorder, candidate.StockOut:
		return candidate.StockStatus(s)
	default:
		return candidate.StockUnknown
	}
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseUnix reads a unix-seconds timestamp field. Zero time when missing.
func parseUnix(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}
