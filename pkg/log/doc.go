// Package log is a small wrapper around the standard library logger that
// gives every component of pagebuilder a named logger.
//
// Every line carries a level and the component name:
//
//	2025/01/02 10:00:00.000000 WARN [composer>] block failed block=3 type=members_grid
//
// Debug output is off by default and can be enabled globally
// (SetGlobalDebug) or for a single component (EnableDebugFor). The --debug
// flag of the CLI maps to SetGlobalDebug.
//
// Usage:
//
//	l := log.ForService("composer")
//	l.Infof("rendered %d blocks", n)
//	l.With(log.Fields{"block": 2, "type": "hero"}).Debugf("rejected")
//
// The package name collides with the standard library "log"; alias one of
// them when both are needed.
package log
