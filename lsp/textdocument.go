package lsp

type TextDocumentItem struct {
	URI        DocumentURI  `json:"uri"`
	LanguageID LanguageKind `json:"languageId"`
	Version    int32        `json:"version"`
	Text       string       `json:"text"`
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type Position struct {
	Line      int32 `json:"line"`
	Character int32 `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}
