package types

// Default values for a fresh new-function draft
const (
	DefaultLanguage = "python"
	DefaultTimeout  = 5
)

// Function is a function definition as stored by the backend catalog
type Function struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Route    string `json:"route"`
	Language string `json:"language"`
	Timeout  int    `json:"timeout"`
	Filename string `json:"filename"`
}

// Draft returns the editable fields of the function
func (f Function) Draft() FunctionDraft {
	return FunctionDraft{
		Name:     f.Name,
		Route:    f.Route,
		Language: f.Language,
		Timeout:  f.Timeout,
		Filename: f.Filename,
	}
}

// FunctionDraft is a function definition without the backend assigned ID.
// It is the body of create requests and the working copy of an edit session.
type FunctionDraft struct {
	Name     string `json:"name"`
	Route    string `json:"route"`
	Language string `json:"language"`
	Timeout  int    `json:"timeout"`
	Filename string `json:"filename"`
}

// NewFunctionDraft returns a draft populated with the default values
func NewFunctionDraft() FunctionDraft {
	return FunctionDraft{
		Language: DefaultLanguage,
		Timeout:  DefaultTimeout,
	}
}

// WithID attaches an ID, producing the full definition sent on update
func (d FunctionDraft) WithID(id int) Function {
	return Function{
		ID:       id,
		Name:     d.Name,
		Route:    d.Route,
		Language: d.Language,
		Timeout:  d.Timeout,
		Filename: d.Filename,
	}
}

// RunResponse is the body returned by a successful run
type RunResponse struct {
	Output string `json:"output"`
}
