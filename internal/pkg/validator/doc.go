// Package validator wraps go-playground/validator behind a one-method
// interface so usecases can validate inputs without knowing the engine.
package validator
