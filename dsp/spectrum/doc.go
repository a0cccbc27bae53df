// Package spectrum provides a small running spectrum analyser for metering.
package spectrum
