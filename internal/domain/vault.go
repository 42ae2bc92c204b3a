package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// VaultKind names the five holding records an entry fee is split into.
type VaultKind string

const (
	VaultDaily     VaultKind = "daily"
	VaultWeekly    VaultKind = "weekly"
	VaultMonthly   VaultKind = "monthly"
	VaultPlatform  VaultKind = "platform"
	VaultLuckyDraw VaultKind = "lucky_draw"
)

// VaultKinds lists every vault in split order.
var VaultKinds = []VaultKind{VaultDaily, VaultWeekly, VaultMonthly, VaultPlatform, VaultLuckyDraw}

// PrizeVaultFor maps a competition granularity to its prize vault.
func PrizeVaultFor(g Granularity) VaultKind {
	switch g {
	case GranularityWeekly:
		return VaultWeekly
	case GranularityMonthly:
		return VaultMonthly
	default:
		return VaultDaily
	}
}

// Vault is a value-holding record. Balance is integer base units.
type Vault struct {
	Kind      VaultKind `json:"kind"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryType enumerates ledger entry types for vault movements.
type EntryType string

const (
	EntryTicketSplit       EntryType = "ticket_split"
	EntryPrizeClaim        EntryType = "prize_claim"
	EntryVaultFunding      EntryType = "vault_funding"
	EntryRevenueWithdrawal EntryType = "revenue_withdrawal"
)

// VaultEntry is one append-only ledger row: a signed amount applied to
// a vault with the post-update balance snapshot.
type VaultEntry struct {
	ID           uuid.UUID       `json:"id"`
	PlayerID     *uuid.UUID      `json:"player_id,omitempty"`
	Vault        VaultKind       `json:"vault"`
	Type         EntryType       `json:"type"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	ExternalRef  *string         `json:"external_ref,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IdempotencyKey identifies a retried vault operation. PlayerID is nil
// for admin-initiated movements.
type IdempotencyKey struct {
	PlayerID    *uuid.UUID
	Vault       VaultKind
	ExternalRef string
}
