// Package dynamics provides the mastering limiter: a stereo-linked hard-knee
// compressor at ratio 20 with a metering tap (peak, RMS, gain reduction and
// a smoothed input spectrum).
package dynamics
