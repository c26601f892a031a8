// Package taxonomy supplies the questionnaire taxonomy and answer scripts.
//
// The taxonomy is either the built-in school quality framework embedded in
// the binary or a YAML file with the same shape. Taxonomy content is trusted:
// only decoding errors are reported, ids and colors are not validated.
//
// Answer scripts describe one filled-in questionnaire for the
// non-interactive report command. They are replayed through an
// assessment.Session so the same selection and answer rules apply as in the
// interactive flow.
package taxonomy
