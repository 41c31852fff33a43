// Package cli parses the photosite command line into config.Settings.
package cli
