// Package hcl provides the HCL implementation of the config.Loader and
// config.Encoder interfaces. It is responsible for file parsing, turning
// `model` blocks into config.Model values, and writing models back out.
//
// Formula attributes (initial, maximum, rate) accept a number, a string that
// holds formula source, or a bare expression. Bare expressions are never
// evaluated by HCL: their source text is handed to the formula tokenizer so
// operators keep their strict left-to-right meaning.
package hcl
