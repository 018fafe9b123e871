//go:build tools

package tools

// This file tracks versions of CLI tool dependencies.
// It is not compiled into the binary.
//
// Migrations are applied with goose, tracked via the go.mod tool
// directive: github.com/pressly/goose/v3/cmd/goose
