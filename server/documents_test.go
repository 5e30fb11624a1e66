package server

import (
	"testing"

	"github.com/0x15BA88FF/brain-surgeon/file"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocuments(t *testing.T) {
	docs := newDocuments()
	uri := lsp.DocumentURI("file:///work/hello.bf")

	assert.Nil(t, docs.apply(file.Modification{URI: uri, Action: file.Save, Version: -1}))

	fh := docs.apply(file.Modification{URI: uri, Action: file.Open, Version: 3, LanguageID: "brainfuck"})
	require.NotNil(t, fh)
	assert.Equal(t, file.Brainfuck, fh.Kind())
	assert.True(t, admit(fh))

	fh = docs.apply(file.Modification{URI: uri, Action: file.Save, Version: -1})
	require.NotNil(t, fh)
	assert.Equal(t, int32(3), fh.Version())

	assert.Nil(t, docs.apply(file.Modification{URI: uri, Action: file.Close, Version: -1}))
	_, ok := docs.get(uri)
	assert.False(t, ok)
}

func TestAdmit(t *testing.T) {
	assert.False(t, admit(nil))
	assert.False(t, admit(&document{uri: "file:///a.txt", languageID: "plaintext"}))
	assert.False(t, admit(&document{uri: "file:///a.bf", languageID: "BRAINFUCK"}))
	assert.True(t, admit(&document{uri: "file:///a.bf", languageID: "brainfuck"}))
}
