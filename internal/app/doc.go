// Package app contains the core application logic. It loads model files,
// builds and runs the models, and renders their results, decoupled from any
// specific entrypoint like a CLI.
package app
