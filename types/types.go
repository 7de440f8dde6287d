package types

import (
	"encoding/json"
)

// Execution result codes carried on a Receipt.
const (
	ExecErr  = int32(0)
	ExecPack = int32(1)
	ExecOk   = int32(2)
)

const (
	// Coin is the number of base units in one token.
	Coin int64 = 1e8
	// MaxCoin bounds any single amount accepted by the asset ledger.
	MaxCoin int64 = Coin * 1e10
)

// Message is any encodable payload (action payloads, query replies).
type Message interface{}

type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

func (kv *KeyValue) GetKey() []byte {
	if kv == nil {
		return nil
	}
	return kv.Key
}

func (kv *KeyValue) GetValue() []byte {
	if kv == nil {
		return nil
	}
	return kv.Value
}

type ReceiptLog struct {
	Ty  int32  `json:"ty"`
	Log []byte `json:"log"`
}

// Receipt is the result of one state transition: the KV writes it produced
// and the logs describing them.
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

// Transaction is one externally submitted operation against a chain. From is
// the authenticated sender; authentication itself is furnished by the
// platform and out of scope here.
type Transaction struct {
	Execer  string `json:"execer"`
	Action  string `json:"action"`
	Payload []byte `json:"payload"`
	From    string `json:"from"`
}

// Encode serializes a message for storage or transport. Encoding failures
// are programming errors, not runtime conditions.
func Encode(data Message) []byte {
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return b
}

func Decode(data []byte, v Message) error {
	if err := json.Unmarshal(data, v); err != nil {
		return ErrDecode
	}
	return nil
}

// CheckAmount rejects non-positive or absurdly large amounts before they
// reach balance arithmetic.
func CheckAmount(amount int64) bool {
	return amount > 0 && amount <= MaxCoin
}
