//go:build lumen_debug

package core

// debugBuild is set by building with -tags lumen_debug
const debugBuild = true
