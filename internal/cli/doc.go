// Package cli turns command-line arguments into an app.Config plus the few
// choices that stay at the process level, such as which flow loader to use.
// Invalid input is reported as an ExitError carrying the exit code.
package cli
