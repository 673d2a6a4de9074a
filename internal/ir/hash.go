package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainArtifact = "evgen/artifact/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the generation fingerprint of artifact content.
// The generation ledger stores this value for every file the tool writes;
// a file on disk whose fingerprint no longer matches was edited by hand.
func Fingerprint(content []byte) string {
	return hashWithDomain(DomainArtifact, content)
}
