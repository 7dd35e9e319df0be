// Package formula - Syntax pre-check
package formula

// Validate rejects malformed formulas at input time, independent of
// evaluation: missing leading "=", unbalanced parentheses, comment-like
// sequences, unknown function names, or anything unparseable. Column
// letters are accepted loosely here because the active schema is not
// consulted; binding happens when the worksheet evaluates the cell.
func Validate(src string) error {
	_, err := parse(src, bindLoose())
	return err
}
