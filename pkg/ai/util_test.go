package ai

import (
	"strings"
	"testing"
)

func TestUnmarshalFlexible(t *testing.T) {
	type verdict struct {
		Passed   bool   `json:"passed"`
		Critique string `json:"critique"`
	}

	tests := []struct {
		name    string
		input   string
		want    verdict
		wantErr bool
	}{
		{
			name:  "valid json",
			input: `{"passed": true, "critique": "fine"}`,
			want:  verdict{Passed: true, Critique: "fine"},
		},
		{
			name:  "surrounding whitespace",
			input: "  \n{\"passed\": false, \"critique\": \"off topic\"}\n ",
			want:  verdict{Passed: false, Critique: "off topic"},
		},
		{
			name:  "double encoded",
			input: `"{\"passed\": true, \"critique\": \"fine\"}"`,
			want:  verdict{Passed: true, Critique: "fine"},
		},
		{
			name:  "duplicate leading brace",
			input: `{{"passed": true, "critique": "fine"}`,
			want:  verdict{Passed: true, Critique: "fine"},
		},
		{
			name:  "repairable trailing comma",
			input: `{"passed": true, "critique": "fine",}`,
			want:  verdict{Passed: true, Critique: "fine"},
		},
		{
			name:  "repairable missing quotes",
			input: `{passed: true, critique: "fine"}`,
			want:  verdict{Passed: true, Critique: "fine"},
		},
		{
			name:    "hopeless input",
			input:   "not even close",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got verdict
			err := UnmarshalFlexible(tt.input, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	type response struct {
		Variations []string `json:"variations"`
	}

	schema := GenerateSchema(&response{})
	if schema == nil {
		t.Fatal("expected a schema")
	}
}

func TestGenerateOptions(t *testing.T) {
	options := GenerateOptions{Model: "default-model", Temperature: 0.3}
	for _, o := range []GenerateOption{
		WithModel("other-model"),
		WithTemperature(0.7),
		WithSystemPrompts("be brief"),
	} {
		o(&options)
	}

	if options.Model != "other-model" {
		t.Errorf("model override failed: %s", options.Model)
	}
	if options.Temperature != 0.7 {
		t.Errorf("temperature override failed: %v", options.Temperature)
	}
	if len(options.SystemPrompts) != 1 || !strings.Contains(options.SystemPrompts[0], "brief") {
		t.Errorf("system prompts override failed: %v", options.SystemPrompts)
	}
}
