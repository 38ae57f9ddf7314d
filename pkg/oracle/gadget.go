package oracle

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// ChallengeVar mirrors Challenge: it feeds the same byte variables through
// the in-circuit MiMC gadget and returns the resulting field element (the
// in-circuit representation never materializes individual challenge
// bytes — byte-level comparisons in the native world become a single
// field equality once both sides are lifted through the same hash).
//
// bytesToFieldVar repacks each run of up to 31 input byte variables into one
// field element the same way the native Challenge does, so the two sides
// process an identical sequence of MiMC absorptions.
func ChallengeVar(api frontend.API, salt, pubKeyBytes, commitmentBytes, msg []frontend.Variable) (frontend.Variable, error) {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}

	write := func(b []frontend.Variable) {
		for len(b) > 0 {
			n := 31
			if len(b) < n {
				n = len(b)
			}
			h.Write(bytesToFieldVar(api, b[:n]))
			b = b[n:]
		}
	}

	if len(salt) > 0 {
		write(salt)
	}
	write(pubKeyBytes)
	write(commitmentBytes)
	write(msg)

	return h.Sum(), nil
}

// bytesToFieldVar packs up to 31 big-endian byte variables into one field
// element, matching fr.Element.SetBytes's big-endian convention.
func bytesToFieldVar(api frontend.API, b []frontend.Variable) frontend.Variable {
	acc := frontend.Variable(0)
	for _, byteVar := range b {
		acc = api.Add(api.Mul(acc, 256), byteVar)
	}
	return acc
}
