package util

import (
	"encoding/json"
	"fmt"
	"io"
)

// Pprint writes v as indented JSON
func Pprint(w io.Writer, v any) error {
	bytes, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}
