// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Earth and Moon controllers, sidereal start phase, debug config dump
// 0.2.0 - YAML config overrides, locale-aware info panel, starfield background
// 0.1.0 - Initial release: store, Sun/Mars controllers, terminal sphere renderer
