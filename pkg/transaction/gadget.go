package transaction

import (
	"github.com/consensys/gnark/frontend"
	"github.com/nyxledger/rollup-core/pkg/account"
	"github.com/nyxledger/rollup-core/pkg/curve"
	"github.com/nyxledger/rollup-core/pkg/hashcore"
	"github.com/nyxledger/rollup-core/pkg/merkle"
	"github.com/nyxledger/rollup-core/pkg/signature"
)

// Var is the in-circuit mirror of Transaction.
type Var struct {
	Sender    account.IDVar
	Recipient account.IDVar
	Amount    account.AmountVar
	Signature signature.SignatureVar
}

// MessageVar mirrors Message.
func MessageVar(api frontend.API, tx Var) []frontend.Variable {
	out := make([]frontend.Variable, 0, 1+1+8)
	out = append(out, tx.Sender.ToBytesLE()...)
	out = append(out, tx.Recipient.ToBytesLE()...)
	out = append(out, tx.Amount.ToBytesLE(api)...)
	return out
}

// ValidateVar is the in-circuit dual-root statement proved for every
// transaction in a rollup batch:
//
//  1. the signature verifies against the pre-state sender's public key;
//  2. pre-state sender info authenticates to preRoot, and the same sender
//     info with balance reduced by amount authenticates to postRoot,
//     along the one witnessed sender path;
//  3. symmetrically for the recipient, with balance increased by amount;
//  4. all of the above hold simultaneously (logical AND).
//
// CheckedSubVar/CheckedAddVar's range checks are what make "balance
// reduced/increased by amount" reject an underflowing or overflowing
// transfer: an invalid amount produces a post-state balance whose headroom
// byte is non-zero, and the range check asserts that byte is zero, so the
// constraint system is unsatisfied whatever postRoot is witnessed.
func ValidateVar(
	api frontend.API,
	cg *curve.Gadget,
	hg *hashcore.Gadget,
	sigParams signature.ParametersVar,
	hashParams hashcore.ParametersVar,
	tx Var,
	preSenderInfo, preRecipientInfo account.InformationVar,
	senderPath, recipientPath merkle.PathVar,
	preRoot, postRoot frontend.Variable,
) (frontend.Variable, error) {
	msg := MessageVar(api, tx)
	sigOK, err := signature.Verify(api, cg, sigParams, preSenderInfo.PublicKey, msg, tx.Signature)
	if err != nil {
		return nil, err
	}

	postSenderInfo := preSenderInfo
	postSenderInfo.Balance = account.CheckedSubVar(api, preSenderInfo.Balance, tx.Amount)
	postRecipientInfo := preRecipientInfo
	postRecipientInfo.Balance = account.CheckedAddVar(api, preRecipientInfo.Balance, tx.Amount)

	preSenderLeaf := hg.LeafHashVar(hashParams, preSenderInfo.ToBytesLE(api, cg))
	postSenderLeaf := hg.LeafHashVar(hashParams, postSenderInfo.ToBytesLE(api, cg))
	senderOK := merkle.VerifyUpdateVar(api, hg, hashParams, preSenderLeaf, postSenderLeaf, preRoot, postRoot, senderPath)

	preRecipientLeaf := hg.LeafHashVar(hashParams, preRecipientInfo.ToBytesLE(api, cg))
	postRecipientLeaf := hg.LeafHashVar(hashParams, postRecipientInfo.ToBytesLE(api, cg))
	recipientOK := merkle.VerifyUpdateVar(api, hg, hashParams, preRecipientLeaf, postRecipientLeaf, preRoot, postRoot, recipientPath)

	ok := api.And(senderOK, recipientOK)
	ok = api.And(ok, sigOK)
	return ok, nil
}
