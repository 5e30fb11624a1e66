package file

import (
	"testing"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/stretchr/testify/assert"
)

func TestKindForLang(t *testing.T) {
	assert.Equal(t, Brainfuck, KindForLang("brainfuck"))
	for _, lang := range []lsp.LanguageKind{"", "Brainfuck", "bf", "typescript", "plaintext"} {
		assert.Equal(t, UnknownKind, KindForLang(lang), lang)
	}
	assert.Equal(t, "brainfuck", Brainfuck.String())
}
