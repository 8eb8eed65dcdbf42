// Package lang classifies raw contract source into a supported language.
package lang

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// ErrUnsupportedLanguage means neither the hint nor the source text matched a
// supported language; callers must not proceed to scanning.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var (
	reMoveModule   = regexp.MustCompile(`(?m)^\s*module\s+[\w:]+\s*(::\w+)?\s*\{`)
	reMoveEntry    = regexp.MustCompile(`(public\s+)?entry\s+fun\s+\w+`)
	reSolPragma    = regexp.MustCompile(`(?m)^\s*pragma\s+solidity`)
	reSolContract  = regexp.MustCompile(`(?m)^\s*(abstract\s+)?(contract|interface|library)\s+\w+`)
	reRustFn       = regexp.MustCompile(`(?m)^\s*(pub\s+)?fn\s+\w+`)
	reRustProgram  = regexp.MustCompile(`#\[(program|account|derive\(Accounts\))\]`)
	reRustUseCrate = regexp.MustCompile(`(?m)^\s*use\s+(anchor_lang|solana_program|crate)`)
)

// Detect resolves the language for a source. A valid hint is trusted as-is;
// otherwise lightweight lexical signatures decide.
func Detect(source, hint string) (model.Language, error) {
	if h := model.ParseLanguage(strings.ToLower(strings.TrimSpace(hint))); h != model.LangUnknown {
		return h, nil
	}
	if reSolPragma.MatchString(source) || reSolContract.MatchString(source) {
		return model.LangSolidity, nil
	}
	if reMoveEntry.MatchString(source) || (reMoveModule.MatchString(source) && strings.Contains(source, "signer")) {
		return model.LangMove, nil
	}
	if reMoveModule.MatchString(source) && strings.Contains(source, "::") {
		return model.LangMove, nil
	}
	if reRustProgram.MatchString(source) || reRustUseCrate.MatchString(source) {
		return model.LangRust, nil
	}
	if reRustFn.MatchString(source) && (strings.Contains(source, "unsafe") || strings.Contains(source, "let ") || strings.Contains(source, "->")) {
		return model.LangRust, nil
	}
	return model.LangUnknown, ErrUnsupportedLanguage
}
