// Package cli implements fieldctl, the command-line client used by field
// units to capture incident reports offline and deliver them later.
//
// Commands:
//   - login: store the device token issued for the unit (read without echo)
//   - logout: forget the stored token
//   - add: capture a report interactively into the local outbox
//   - list: show captured reports and their delivery state
//   - sync: send pending reports and record the server answer
//
// Retrying sync is always safe: the server resolves reports by their local
// id, so a batch delivered twice creates each record once.
package cli
