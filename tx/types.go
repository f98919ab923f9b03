package tx

// Mass-fee constants for the Karlsen network. The fee does not have to be
// exact, only at or above the relay minimum; with relay-fee-per-mass-unit = 1
// the fee in sompi equals the transaction mass in grams.
//
// The values are a linear approximation of the serialized transaction mass:
// a fixed envelope cost (version, counts, lock time, subnetwork ID, gas,
// payload hash), a fixed output cost covering up to two standard outputs,
// and a marginal cost per input.
const (
	// MassBase is the envelope mass of an empty transaction.
	MassBase = 239

	// MassOutputs covers up to two standard outputs (send + change).
	MassOutputs = 690

	// MassPerInput is the marginal mass added by each consumed input.
	MassPerInput = 1118

	// DustThreshold is the smallest change amount, in sompi, worth a
	// dedicated output. Anything below it is left to the miner as fee.
	DustThreshold = 10000
)

// TxVersion is the transaction version emitted by the builder.
const TxVersion uint16 = 0

// SubnetworkIDNative is the hex form of the native (20 zero bytes) subnetwork.
const SubnetworkIDNative = "0000000000000000000000000000000000000000"

// UnspentOutput is a spendable coin as reported by the relay. It is
// immutable once fetched; building a transaction only references it.
type UnspentOutput struct {
	TxID   string `json:"txid"`   // hex transaction ID of the funding tx
	Index  uint32 `json:"index"`  // output index within the funding tx
	Amount uint64 `json:"amount"` // sompi
}

// SelectionResult is the outcome of coin selection. Insufficiency is
// reported through SufficientFunds, never through an error; callers must
// check the flag before building.
type SelectionResult struct {
	SufficientFunds bool
	Selected        []UnspentOutput
	Fee             uint64 // estimated fee in sompi (== mass)
	Total           uint64 // sum of Selected amounts
}

// Input is a claim on a previously unspent output, tagged with the
// key-derivation coordinates the signing device needs to locate its key.
type Input struct {
	TxID            string
	Index           uint32
	Amount          uint64
	AddressType     uint32 // keychain: 0 receive, 1 change
	AddressIndex    uint32
	SignatureScript []byte // set by the signer, nil until then
}

// Output is a new spendable coin created by the transaction.
type Output struct {
	Amount          uint64
	ScriptPublicKey []byte
	ScriptVersion   uint16
}

// UnsignedTransaction is the builder's product: a fully populated
// transaction awaiting one signature per input. The signer must not
// reorder inputs or outputs.
type UnsignedTransaction struct {
	Version            uint16
	Inputs             []Input
	Outputs            []Output
	ChangeAddressType  uint32
	ChangeAddressIndex uint32
	Account            uint32 // hardened account index from the derivation path
}

// SignedTransaction is an UnsignedTransaction whose inputs all carry a
// signature script. It is ready for wire serialization and submission.
type SignedTransaction struct {
	UnsignedTransaction
}
