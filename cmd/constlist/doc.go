// Constlist reports the constant lists declared by annotated Go constants.
//
// A constant joins a list when its doc comment carries an @ConstantList tag;
// the rest of the comment becomes the label of the constant's value.
//
// Usage:
//
//	constlist get Status                      # every list of type Status
//	constlist list -C ./order Status state    # one list
//	constlist label Status state open         # label of a value
//	constlist exists Status state open        # exit 0 when present
//	constlist cache clear                     # drop cached scans
//
// Results are cached per type; --debug rescans on every call.
package main
