// Package rewrite applies the attribute and text rewrites to tags that pass
// through the transformer: base URL substitution, asset path prefixing,
// inline CSS url() rewriting and fingerprinting.
//
// A Pipeline is built once per transformation and is safe for concurrent use;
// it only reads its options.
package rewrite
