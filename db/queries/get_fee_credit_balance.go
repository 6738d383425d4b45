package queries

import "gorm.io/gorm"

// GetFeeCreditBalance sums the fee-credit ledger to the running balance in
// msat; the liquidity policy checks that balance plus a quote's amount
// against maxAllowedCredit. See spec.md §4.C.
func GetFeeCreditBalance(tx *gorm.DB) int64 {
	var row struct {
		Sum int64
	}
	tx.Table("fee_credit_ledger").Select("SUM(delta_msat) as sum").Scan(&row)
	return row.Sum
}
