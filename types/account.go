package types

// Account is one owner's balance on one chain.
type Account struct {
	Addr    string `json:"addr"`
	Balance int64  `json:"balance"`
}

func (acc *Account) GetBalance() int64 {
	if acc == nil {
		return 0
	}
	return acc.Balance
}

// ReceiptAccountTransfer records a balance change on one side of a transfer.
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

// Asset-ledger receipt log types.
const (
	TyLogTransfer = int32(11)
	TyLogDeposit  = int32(12)
	TyLogClaim    = int32(13)
)
