// Package drivers defines the motion and spectrum instrument interfaces the
// scan runner drives, plus the mock implementations used for pipeline
// validation. Real instrument backends live outside this repository and
// register under their own configuration names.
package drivers
