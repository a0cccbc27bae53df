// Package rack hosts instruments and effects behind one plugin contract.
//
// A Rack owns plugins by stable Handle. Instruments render into their own
// output bus; the buses are summed and passed through the effects in
// insertion order. Plugins are built from a Registry of factories and can
// be saved and restored as JSON SlotState records.
package rack
