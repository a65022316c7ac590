// Package convert provides the builtin token converters. Each converter
// implements the command.Converter contract: conversion failure is signaled
// by ok=false, never by an error or a panic.
package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/token"
)

// RegisterDefaults installs the builtin converters and the default fallback
// builder on a registry.
func RegisterDefaults(reg *command.Registry) {
	reg.RegisterConverter(token.KindString, StringConverter{})
	reg.RegisterConverter(token.KindInt, IntConverter{})
	reg.RegisterConverter(token.KindFloat, FloatConverter{})
	reg.RegisterConverter(token.KindBool, BoolConverter{})
	reg.RegisterConverter(token.KindDuration, DurationConverter{})
	reg.RegisterConverter(token.KindList, ListConverter{})
	reg.RegisterConverter(token.KindAny, AnyConverter{})
	reg.SetFallback(ZeroBuilder{})
}

// StringConverter passes text through. The array form joins tokens with
// single spaces, which is what rest-consuming string parameters rely on.
type StringConverter struct{}

func (StringConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	return token.NewString(tok.Text()), true
}

func (StringConverter) FromTokens(toks []token.Value, _ *command.Context) (token.Value, bool) {
	return token.NewString(strings.Join(token.Texts(toks), " ")), true
}

// IntConverter parses base-10 integers. The array form takes the first
// token; multi-value integer slots are declared as lists instead.
type IntConverter struct{}

func (IntConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(tok.Text()), 10, 64)
	if err != nil {
		return token.None(), false
	}
	return token.NewInt(n), true
}

func (c IntConverter) FromTokens(toks []token.Value, ctx *command.Context) (token.Value, bool) {
	if len(toks) == 0 {
		return token.None(), false
	}
	return c.FromToken(toks[0], ctx)
}

// FloatConverter parses 64-bit floats.
type FloatConverter struct{}

func (FloatConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(tok.Text()), 64)
	if err != nil {
		return token.None(), false
	}
	return token.NewFloat(f), true
}

func (c FloatConverter) FromTokens(toks []token.Value, ctx *command.Context) (token.Value, bool) {
	if len(toks) == 0 {
		return token.None(), false
	}
	return c.FromToken(toks[0], ctx)
}

// BoolConverter accepts the strconv.ParseBool forms plus yes/no and on/off.
type BoolConverter struct{}

func (BoolConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	s := strings.ToLower(strings.TrimSpace(tok.Text()))
	switch s {
	case "yes", "on":
		return token.NewBool(true), true
	case "no", "off":
		return token.NewBool(false), true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return token.None(), false
	}
	return token.NewBool(b), true
}

func (c BoolConverter) FromTokens(toks []token.Value, ctx *command.Context) (token.Value, bool) {
	if len(toks) == 0 {
		return token.None(), false
	}
	return c.FromToken(toks[0], ctx)
}

// DurationConverter parses time.Duration strings such as "250ms" or "2h".
type DurationConverter struct{}

func (DurationConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	d, err := time.ParseDuration(strings.TrimSpace(tok.Text()))
	if err != nil {
		return token.None(), false
	}
	return token.NewDuration(d), true
}

func (c DurationConverter) FromTokens(toks []token.Value, ctx *command.Context) (token.Value, bool) {
	if len(toks) == 0 {
		return token.None(), false
	}
	return c.FromToken(toks[0], ctx)
}

// ListConverter gathers tokens into a list value, preserving each token's
// own tag so forwarded typed values survive intact.
type ListConverter struct{}

func (ListConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	return token.NewList(tok), true
}

func (ListConverter) FromTokens(toks []token.Value, _ *command.Context) (token.Value, bool) {
	return token.NewList(toks...), true
}

// AnyConverter wraps tokens without interpretation.
type AnyConverter struct{}

func (AnyConverter) FromToken(tok token.Value, _ *command.Context) (token.Value, bool) {
	return tok, true
}

func (AnyConverter) FromTokens(toks []token.Value, _ *command.Context) (token.Value, bool) {
	return token.NewList(toks...), true
}

// ZeroBuilder is the default fallback builder: empty slots get the kind's
// zero value and direct construction only succeeds for kinds that can be
// built from plain text.
type ZeroBuilder struct{}

func (ZeroBuilder) ConstructDefault(k token.Kind) token.Value {
	return token.Zero(k)
}

func (ZeroBuilder) ConstructFromTokens(k token.Kind, toks []token.Value, ctx *command.Context) (token.Value, bool) {
	switch k {
	case token.KindString:
		return StringConverter{}.FromTokens(toks, ctx)
	case token.KindList:
		return ListConverter{}.FromTokens(toks, ctx)
	case token.KindAny:
		return AnyConverter{}.FromTokens(toks, ctx)
	default:
		return token.None(), false
	}
}
