// Package idhash computes deterministic identifiers for run inputs.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// InputsDigest fingerprints the files a shock computation reads.
// Formula: SHA256(base(p1)|SHA256(content1)|base(p2)|SHA256(content2)|...)
// Order matters. Returns hex-encoded hash (64 characters).
func InputsDigest(paths ...string) (string, error) {
	h := sha256.New()
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("digest input: %w", err)
		}
		sum := sha256.Sum256(data)
		if i > 0 {
			h.Write([]byte("|"))
		}
		fmt.Fprintf(h, "%s|%s", filepath.Base(p), hex.EncodeToString(sum[:]))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MetricKey computes a deterministic key for one shock metric of a vintage.
// Formula: SHA256(vintage|scenario|factor_id|formula|selector)
// Returns hex-encoded hash (64 characters).
func MetricKey(vintage, scenario, factorID, formula, selector string) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s", vintage, scenario, factorID, formula, selector)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
