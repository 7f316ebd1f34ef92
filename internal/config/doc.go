// Package config defines the format-agnostic description of stock-and-flow
// models, along with the Loader and Encoder interfaces implemented by the
// file-format packages.
//
// A config.Model is plain data: names, formula sources and flags exactly as a
// user wrote them. Turning it into a runnable engine.Model is the job of the
// builder package, so loaders never need to know about rates or state.
package config
