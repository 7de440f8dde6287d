package coins

// CoinsTransfer moves balance from the sender to To.
type CoinsTransfer struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// CoinsClaim pulls balance out of an executor pool account into the sender.
type CoinsClaim struct {
	Source string `json:"source"`
	Amount int64  `json:"amount"`
}

// CoinsDeposit credits an address. Only genesis setup and authenticated
// cross-chain instructions issue deposits.
type CoinsDeposit struct {
	Addr   string `json:"addr"`
	Amount int64  `json:"amount"`
}

type ReqBalance struct {
	Addr string `json:"addr"`
}

type ReplyBalance struct {
	Addr    string `json:"addr"`
	Balance int64  `json:"balance"`
}
