package commutative

import "fmt"

// AdvisoryKind classifies a non-fatal condition found while constructing a [Cipher]
type AdvisoryKind int

const (
	// AdvisoryWeakPrime means the modulus is a valid safe prime but shorter than the secure threshold
	AdvisoryWeakPrime AdvisoryKind = iota
)

func (k AdvisoryKind) String() string {
	switch k {
	case AdvisoryWeakPrime:
		return "weak-prime"
	default:
		return fmt.Sprintf("AdvisoryKind(%d)", int(k))
	}
}

// An Advisory reports a risk that did not prevent construction. Callers who want to
// refuse legacy groups can inspect [Cipher.Advisories] instead of parsing log output
type Advisory struct {
	Kind      AdvisoryKind
	BitLen    int // bit length of the modulus
	Threshold int // bit length considered secure
}

func (a Advisory) String() string {
	switch a.Kind {
	case AdvisoryWeakPrime:
		return fmt.Sprintf("%d-bit prime is too small for secure encryption (want at least %d bits)", a.BitLen, a.Threshold)
	default:
		return a.Kind.String()
	}
}
