// Package calibration defines the hand-eye calibration record and its
// persistence format. It contains:
//
//   - Parameters: the description of a calibration setup (frame names,
//     mounting configuration, acquisition mode)
//   - Transform: a 6-DOF rigid transform (translation + unit quaternion)
//   - Calibration: a computed result, i.e. Parameters plus the transform
//     between the derived frame pair
//
// These types are shared across daemon, client and CLI code to keep the JSON
// API and the on-disk YAML contract consistent. A stored calibration is a
// two-level YAML mapping with a "parameters" and a "transformation" section;
// the key names are a compatibility contract and must not change.
package calibration
