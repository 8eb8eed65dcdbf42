package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		source string
		hint   string
		want   model.Language
	}{
		{
			name:   "move_module",
			source: "module 0x42::vault {\n    use std::signer;\n    public entry fun deposit(account: &signer) {}\n}",
			want:   model.LangMove,
		},
		{
			name:   "solidity_pragma",
			source: "pragma solidity ^0.8.19;\n\ncontract Wallet {}\n",
			want:   model.LangSolidity,
		},
		{
			name:   "solidity_contract_only",
			source: "contract Token {\n    function mint() public {}\n}",
			want:   model.LangSolidity,
		},
		{
			name:   "rust_anchor",
			source: "use anchor_lang::prelude::*;\n\n#[program]\npub mod thing {}\n",
			want:   model.LangRust,
		},
		{
			name:   "rust_plain_fn",
			source: "pub fn process(data: &[u8]) -> u64 {\n    let x = 1;\n    x\n}",
			want:   model.LangRust,
		},
		{
			name:   "hint_wins",
			source: "something unrecognizable",
			hint:   "move",
			want:   model.LangMove,
		},
		{
			name:   "hint_normalized",
			source: "garbage",
			hint:   "  Solidity ",
			want:   model.LangSolidity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.source, tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	_, err := Detect("SELECT * FROM users;", "")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	// an invalid hint does not rescue unrecognizable source
	_, err = Detect("SELECT * FROM users;", "cobol")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}
