package lsp

type ProgressToken any

type Kind string

const (
	Begin  Kind = "begin"
	Report Kind = "report"
	End    Kind = "end"
)

type WorkDoneProgressCreateParams struct {
	// The token to be used to report progress.
	Token ProgressToken `json:"token"`
}

type WorkDoneProgressBeginParams struct {
	Token ProgressToken               `json:"token"`
	Value *WorkDoneProgressBeginValue `json:"value"`
}

type WorkDoneProgressBeginValue struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Cancellable bool   `json:"cancellable,omitempty"`
	Message     string `json:"message,omitempty"`
}

type WorkDoneProgressEndParams struct {
	Token ProgressToken             `json:"token"`
	Value *WorkDoneProgressEndValue `json:"value"`
}

type WorkDoneProgressEndValue struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
}
