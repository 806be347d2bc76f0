// Package validation checks user-provided names before they reach storage.
//
// # Name Validation
//
// User IDs become file names in the filesystem store and primary keys in
// the SQLite store. FileName enforces one rule set for both so a layout
// saved in one store can always be moved to the other.
//
// A valid name:
//
//   - Is not empty or blank
//   - Is at most MaxNameLength bytes
//   - Contains no path separators and does not start with a dot
//   - Contains no control characters
//   - Is not a Windows reserved device name (CON, PRN, AUX, NUL, COM1-9, LPT1-9)
//
// # Usage
//
//	if err := validation.FileName(userID); err != nil {
//	    return fmt.Errorf("invalid user ID: %w", err)
//	}
//
// Failures are returned as *ValidationError carrying the rejected input and
// the reason, suitable for structured logging.
package validation
