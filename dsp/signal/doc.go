// Package signal provides deterministic noise sources and buffer helpers.
package signal
