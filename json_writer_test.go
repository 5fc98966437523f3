package capital

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	testCases := []struct {
		name  string
		write func(w *jsonObjectWriter)
		want  string
	}{
		{
			name:  "empty object",
			write: func(w *jsonObjectWriter) {},
			want:  `{}`,
		},
		{
			name: "keeps order",
			write: func(w *jsonObjectWriter) {
				w.Append("b", 1).Append("a", "hello")
			},
			want: `{"b":1,"a":"hello"}`,
		},
		{
			name: "embed object",
			write: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.Embed(json.RawMessage(`{"c":3,"d":4}`))
				w.Embed(json.RawMessage(`{}`))
				w.Append("b", 2)
			},
			want: `{"a":1,"c":3,"d":4,"b":2}`,
		},
		{
			name: "optional fields",
			write: func(w *jsonObjectWriter) {
				w.Append("a", 0) // a zero value is still written by Append.
				w.Optional("b", "")
				w.Optional("c", M(0, "EUR"))
				w.Optional("d", Q(0))
				w.Optional("e", "hello")
			},
			want: `{"a":0,"e":"hello"}`,
		},
		{
			name: "embed from",
			write: func(w *jsonObjectWriter) {
				w.Append("a", 1)
				w.EmbedFrom(struct {
					C int `json:"c"`
				}{C: 3})
			},
			want: `{"a":1,"c":3}`,
		},
		{
			name: "decimals without quotes",
			write: func(w *jsonObjectWriter) {
				w.Append("total", M(12.5, "EUR"))
				w.Append("units", Q(300))
			},
			want: `{"total":{"amount":12.5,"currency":"EUR"},"units":300}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var w jsonObjectWriter
			tc.write(&w)
			got, err := w.MarshalJSON()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
