package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// InputFingerprint hashes grouped observations deterministically, so a run
// manifest can prove which data produced a result table. Groups are visited
// in sorted label order; observation order within a group is preserved.
func InputFingerprint(groups map[GroupLabel][]float64) Hash {
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, string(label))
	}
	sort.Strings(labels)

	var data strings.Builder
	for _, label := range labels {
		data.WriteString(label)
		data.WriteString(":")
		for _, v := range groups[GroupLabel(label)] {
			data.WriteString(fmt.Sprintf("%.17g,", v))
		}
		data.WriteString(";")
	}
	return NewHash([]byte(data.String()))
}
