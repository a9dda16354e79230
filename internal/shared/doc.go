// Package shared holds cross-cutting helpers that belong to no single
// domain package. Right now that is the testutil subpackage, whose log
// recorder lets tests assert on the run log.
package shared
