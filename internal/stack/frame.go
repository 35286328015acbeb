// Package stack captures call stacks and renders individual frames as text.
package stack

import (
	"strings"
)

const (
	// MAX_STACK_DEPTH caps how many frames are captured for a single trace
	MAX_STACK_DEPTH = 32

	// nestedSeparator is the separator the Go runtime uses between an enclosing
	// function and its closures or between a receiver and its method
	nestedSeparator = "."
)

// Param describes one parameter of a method
type Param struct {
	Type string
	Name string
}

// Method describes the function executing in a frame
type Method struct {
	Package     string   // import path of the declaring package
	Type        string   // receiver type and enclosing functions, nested with "."
	Name        string   // innermost function name
	GenericArgs []string // type arguments, empty when unknown or not generic
	Params      []Param
}

// Frame is a single call-stack frame
type Frame struct {
	Method Method
	File   string
	Line   int
	Column int
}

// ParseFunction splits a fully qualified Go function name as reported by the
// runtime into a Method.
//
//	github.com/acme/app/store.(*Cache).Get.func1 -> Package "github.com/acme/app/store",
//	Type "Cache.Get", Name "func1"
func ParseFunction(name string) Method {
	if name == "" {
		return Method{}
	}

	// The package path ends at the first dot after the last slash.
	slash := strings.LastIndexByte(name, '/')
	rest := name[slash+1:]
	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return Method{Name: name}
	}
	pkg := name[:slash+1+dot]
	symbol := rest[dot+1:]

	parts := splitSymbol(symbol)
	for i, p := range parts {
		p = strings.TrimPrefix(p, "(*")
		p = strings.TrimPrefix(p, "(")
		p = strings.TrimSuffix(p, ")")
		// Generic instantiations show up as "[...]" with no argument names.
		if idx := strings.IndexByte(p, '['); idx >= 0 {
			p = p[:idx]
		}
		parts[i] = p
	}

	m := Method{Package: pkg, Name: parts[len(parts)-1]}
	if len(parts) > 1 {
		m.Type = strings.Join(parts[:len(parts)-1], nestedSeparator)
	}
	return m
}

// splitSymbol splits on dots that are not inside brackets or parentheses.
func splitSymbol(symbol string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(symbol); i++ {
		switch symbol[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '.':
			if depth == 0 {
				parts = append(parts, symbol[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, symbol[start:])
}
