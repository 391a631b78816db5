package inventory

import "time"

// StockStatus is derived on every read from the stock counts and the
// expiry date; it is never stored, so it cannot go stale.
type StockStatus string

const (
	StatusExpired     StockStatus = "expired"
	StatusCriticalLow StockStatus = "critical-low"
	StatusLow         StockStatus = "low"
	StatusOK          StockStatus = "ok"
)

// DefaultExpiryHorizonDays is the lookahead used for "expiring soon"
// when the caller has no configured horizon.
const DefaultExpiryHorizonDays = 90

// Classify orders the rules by severity: an expired product is expired
// no matter how much is on the shelf, and an empty shelf is critical
// regardless of the minimum threshold.
func Classify(rec StockRecord, today time.Time) StockStatus {
	if dateOnly(rec.ExpiryDate).Before(dateOnly(today)) {
		return StatusExpired
	}
	if rec.CurrentStock <= 0 {
		return StatusCriticalLow
	}
	if rec.CurrentStock <= rec.MinStock {
		return StatusLow
	}
	return StatusOK
}

// ExpiringSoon is independent of the stock-level status: a product can
// be fully stocked and still be about to expire. Already-expired
// products are not "expiring soon".
func ExpiringSoon(rec StockRecord, today time.Time, horizonDays int) bool {
	days := int(dateOnly(rec.ExpiryDate).Sub(dateOnly(today)).Hours() / 24)
	return days > 0 && days <= horizonDays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
