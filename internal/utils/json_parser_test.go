package utils

import (
	"reflect"
	"testing"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"priority": "price", "confidence": 0.9}`,
			want: map[string]interface{}{
				"priority":   "price",
				"confidence": float64(0.9),
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"priority": "distance"}` + "\n```",
			want: map[string]interface{}{
				"priority": "distance",
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding text",
			input: `Calling the tool now: {"property_id": 12} done.`,
			want: map[string]interface{}{
				"property_id": float64(12),
			},
			wantErr: false,
		},
		{
			name:  "JSON with trailing comma",
			input: `{"priority": "room_type",}`,
			want: map[string]interface{}{
				"priority": "room_type",
			},
			wantErr: false,
		},
		{
			name:  "JSON with unquoted keys",
			input: `{priority: "price"}`,
			want: map[string]interface{}{
				"priority": "price",
			},
			wantErr: false,
		},
		{
			name:  "Byte order mark prefix",
			input: "\uFEFF" + `{"priority": "price"}`,
			want: map[string]interface{}{
				"priority": "price",
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "No JSON at all",
			input:   "sure, let me look for rentals",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAIJSON() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseAIJSONIntoStruct(t *testing.T) {
	var args struct {
		PropertyID int64  `json:"property_id"`
		Reason     string `json:"reason"`
	}

	input := "```json\n{\"property_id\": 7, \"reason\": \"too far\"}\n```"
	if err := ParseAIJSON(input, &args); err != nil {
		t.Fatalf("ParseAIJSON() error = %v", err)
	}
	if args.PropertyID != 7 || args.Reason != "too far" {
		t.Errorf("ParseAIJSON() = %+v", args)
	}
}
