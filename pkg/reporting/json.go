package reporting

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONFormatter renders advisor output as indented JSON for piping into
// other tools.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format renders v as indented JSON bytes.
func (f *JSONFormatter) Format(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Print renders v as indented JSON on stdout.
func (f *JSONFormatter) Print(v interface{}) error {
	data, err := f.Format(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// WriteJSONFile writes v as indented JSON to path.
func WriteJSONFile(v interface{}, path string) error {
	formatter := NewJSONFormatter()
	data, err := formatter.Format(v)
	if err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PrintJSON is a package-level convenience using the default formatter.
func PrintJSON(v interface{}) error {
	formatter := NewJSONFormatter()
	return formatter.Print(v)
}
