package linking

import "horizon/internal/infrastructure/aggregator"

// AccountSelector picks which of an item's accounts becomes the linked
// account. It must return an error when the slice is empty.
type AccountSelector func(accounts []aggregator.Account) (aggregator.Account, error)

// SelectFirstAccount is the default selection policy: the first account in
// aggregator order. The client-side link flow already scopes the item to the
// accounts the user chose, so first-in-order matches the user's pick for
// single-account links.
func SelectFirstAccount(accounts []aggregator.Account) (aggregator.Account, error) {
	if len(accounts) == 0 {
		return aggregator.Account{}, ErrNoLinkableAccounts
	}
	return accounts[0], nil
}
