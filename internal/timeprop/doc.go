// Package timeprop provides values that are expressed as functions of time.
//
// A [Property] is a tagged variant with three kinds:
//
//   - [Constant]: the same value at every instant
//   - [Sampled]: time-ordered samples, blended by an [Interpolator]
//   - [Callback]: an arbitrary function of time
//
// Callers decide whether a value can be cached across frames by checking
// [Property.IsConstant], never by inspecting the concrete representation.
// A nil *Property means the property is absent.
//
// [Interval] describes the half-open availability window [Start, Stop)
// of an object.
package timeprop
