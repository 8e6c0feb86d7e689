// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "regexp"

// inputPattern matches \input{PATH} with an optional .tex suffix kept out of
// the first group, so already-suffixed paths are not suffixed twice.
var inputPattern = regexp.MustCompile(`\\input\{([^}]*?)(\.tex)?\}`)

// NormalizeInputs rewrites every \input{PATH} and \input{PATH.tex} to
// \input{PATH.tex}. Applying it twice gives the same text as applying it
// once. Other inclusion macros are left untouched.
func NormalizeInputs(text string) string {
	return inputPattern.ReplaceAllString(text, `\input{${1}.tex}`)
}
