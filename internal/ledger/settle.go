package ledger

import "sort"

// SimplifyDebts reduces a set of net balances into a short list of transfers
// that would zero every balance. Greedy heuristic: repeatedly pay the largest
// creditor from the largest debtor. The transfer count is at most
// min(creditors, debtors); close to optimal in practice, though a flow-based
// solver could occasionally do better.
//
// The input balances must sum to zero. Output is deterministic for a given
// input: stable sorts preserve input order on equal balances, so two calls on
// the same snapshot produce identical plans.
func SimplifyDebts(balances []UserBalance) []Transfer {
	var creditors, debtors []UserBalance
	for _, b := range balances {
		switch {
		case b.Balance > 0:
			creditors = append(creditors, b)
		case b.Balance < 0:
			debtors = append(debtors, b)
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Balance > creditors[j].Balance
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Balance < debtors[j].Balance
	})

	transfers := []Transfer{}

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := -debtor.Balance
		if creditor.Balance < amount {
			amount = creditor.Balance
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtor.UserID,
			FromName:   debtor.Username,
			ToUserID:   creditor.UserID,
			ToName:     creditor.Username,
			Amount:     amount,
		})

		debtor.Balance += amount
		creditor.Balance -= amount

		if debtor.Balance == 0 {
			i++
		}
		if creditor.Balance == 0 {
			j++
		}
	}

	return transfers
}
