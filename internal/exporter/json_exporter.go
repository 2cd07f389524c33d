package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/YKarmar/JobTracker/internal/types"
)

// WriteJSON 把完整的解析结果写成 JSON 数组
func WriteJSON(w io.Writer, results []types.ParseResult) error {
	if results == nil {
		results = []types.ParseResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func ExportJSON(filename string, results []types.ParseResult) error {
	return writeFile(filename, func(w io.Writer) error {
		return WriteJSON(w, results)
	})
}
