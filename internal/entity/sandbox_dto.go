package entity

// SandboxExecuteRequest is the payload sent to the code-execution
// service. The script runs in a fresh interpreter with the artifact
// directory mounted as its working directory.
type SandboxExecuteRequest struct {
	Script string `json:"script"`
}

// SandboxExecuteResponse carries whatever the script wrote to stdout
// plus an error description when execution failed.
type SandboxExecuteResponse struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}
