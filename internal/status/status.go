package status

// Status is the operation flag every store exposes alongside its data.
// Commands set Loading on entry and Success or Error on completion; the
// view layer inspects it to decide what to render.
type Status string

const (
	Loading Status = "loading"
	Success Status = "success"
	Error   Status = "error"
)
