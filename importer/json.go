package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/capital"
)

// Mapping tells where transactions and their fields are in a JSON export.
//
// Items selects the list of transactions in the document. Each entry of
// Paths selects a field inside one transaction, fields without a path are
// read from the property of the same name.
type Mapping struct {
	Items string
	Paths map[string]string
}

// DefaultMapping reads a top level array of objects using the field names as properties.
var DefaultMapping = Mapping{Items: "$[*]"}

func (m Mapping) path(field string) string {
	if p, ok := m.Paths[field]; ok {
		return p
	}
	return "$." + field
}

// ReadJSON reads the transactions selected by m from a JSON document.
func ReadJSON(r io.Reader, m Mapping, u capital.Units) ([]capital.Transaction, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep amounts exact
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse JSON: %w", err)
	}

	items := m.Items
	if items == "" {
		items = DefaultMapping.Items
	}
	jval, err := jsonpath.Get(items, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select transactions with %q: %w", items, err)
	}
	list, ok := jval.([]any)
	if !ok {
		// a single match is returned as is.
		list = []any{jval}
	}

	records := make([]record, 0, len(list))
	for _, item := range list {
		rec := make(record)
		for _, f := range Fields {
			v, err := jsonpath.Get(m.path(f), item)
			if err != nil {
				continue // missing fields are reported by the conversion
			}
			rec[f] = scalar(v)
		}
		records = append(records, rec)
	}
	return convert(records, u, func(i int) string { return fmt.Sprintf("item %d", i) })
}

// scalar formats a JSON value as a field.
func scalar(v any) string {
	// jsonpath is never clear about whether it returns a list of 1 answer or a single answer.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", x), "0"), ".")
	default:
		return fmt.Sprint(x)
	}
}
