package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PostVaultEntryParams is the input to the core ledger write primitive.
// Amount is a signed delta in base units.
type PostVaultEntryParams struct {
	PlayerID    *uuid.UUID
	Vault       VaultKind
	Type        EntryType
	Amount      int64
	ExternalRef *string
	Metadata    json.RawMessage
}

// BuyTicketParams buys one period entry: the fee is split across the
// five vaults and the player's paid-period tracking advances.
type BuyTicketParams struct {
	PlayerID uuid.UUID
	// PeriodID is the daily period the ticket admits the player to.
	PeriodID string
	// ExternalRef deduplicates retried purchases.
	ExternalRef string
	Metadata    json.RawMessage
}

// ClaimPrizeParams settles one winner entitlement.
type ClaimPrizeParams struct {
	PlayerID    uuid.UUID
	Granularity Granularity
	PeriodID    string
}

// FundVaultParams credits a vault from an external source (admin).
type FundVaultParams struct {
	Vault       VaultKind
	Amount      int64
	ExternalRef string
	Metadata    json.RawMessage
}

// WithdrawRevenueParams moves accumulated platform revenue out (admin).
type WithdrawRevenueParams struct {
	Amount      int64
	ExternalRef string
	Metadata    json.RawMessage
}

// CommandResult is the uniform return of ledger commands.
type CommandResult struct {
	// Entries are the ledger rows this command appended, in post order.
	Entries []VaultEntry
	// Balances holds the post-command balance of every vault touched.
	Balances map[VaultKind]int64
	// Idempotent is true when a duplicate was detected and no state
	// changed; Entries then holds the original row.
	Idempotent bool
}
