// Package design provides RBJ-cookbook biquad coefficient designers.
//
// Every designer returns zero coefficients (silence) for frequencies outside
// (0, Nyquist) or a non-positive sample rate, and falls back to a
// Butterworth Q for non-positive or non-finite Q values.
package design
