package stdlib

import (
	"fmt"

	"github.com/zinc-lang/zinc/internal/zinc/csys"
	"github.com/zinc-lang/zinc/internal/zinc/scalar"
)

// TransferRecord is one entry zksync_transfer appends to a contract's
// implicit transaction log.
type TransferRecord struct {
	Recipient scalar.Scalar
	TokenID   scalar.Scalar
	Amount    scalar.Scalar
}

// zksync_transfer is handled specially by the engine (it is the one
// built-in that mutates state outside the evaluation/data stacks), so
// its entry in the generic dispatch table only returns an error; the
// engine reaches it through ZkSyncTransfer below.
func zkSyncTransferBuiltin(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) ([]scalar.Scalar, error) {
	return nil, fmt.Errorf("stdlib: zksync_transfer must be invoked through ZkSyncTransfer, not Call")
}

// ZkSyncTransfer validates a transfer's arguments (recipient, token
// id, amount) and returns the log entry the engine appends
// to the active contract's implicit transaction log. It is
// contract-only: the engine rejects it from circuit context.
func ZkSyncTransfer(cs csys.ConstraintSystem, cond csys.Variable, args []scalar.Scalar) (TransferRecord, error) {
	if err := requireArity(args, 3, "zksync_transfer"); err != nil {
		return TransferRecord{}, err
	}
	recipient, tokenID, amount := args[0], args[1], args[2]
	if recipient.Typ.Kind != scalar.KindField {
		return TransferRecord{}, fmt.Errorf("stdlib: zksync_transfer: recipient must be a field scalar")
	}
	if !tokenID.Typ.IsUnsignedInteger() {
		return TransferRecord{}, fmt.Errorf("stdlib: zksync_transfer: token id must be an unsigned integer")
	}
	if !amount.Typ.IsUnsignedInteger() {
		return TransferRecord{}, fmt.Errorf("stdlib: zksync_transfer: amount must be an unsigned integer")
	}
	return TransferRecord{Recipient: recipient, TokenID: tokenID, Amount: amount}, nil
}
