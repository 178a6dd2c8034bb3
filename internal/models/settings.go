package models

// Setting is one backend configuration entry from GET /settings. Values
// are strings on the wire; booleans travel as "true"/"false".
type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}
