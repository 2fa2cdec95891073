package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name       string
		existing   Label
		incoming   Label
		wantValue  string
		wantSource string
	}{
		{
			"不同值累积",
			Label{Value: "content", Source: "content"},
			Label{Value: "popularity", Source: "popularity"},
			"content|popularity", "content,popularity",
		},
		{
			"重复值去重",
			Label{Value: "mmr", Source: "rerank"},
			Label{Value: "mmr", Source: "rerank"},
			"mmr", "rerank",
		},
		{
			"空值取对方",
			Label{},
			Label{Value: "x", Source: "y"},
			"x", "y",
		},
		{
			"对方为空保留自身",
			Label{Value: "x", Source: "y"},
			Label{},
			"x", "y",
		},
	}
	for _, tt := range tests {
		got := MergeLabel(tt.existing, tt.incoming)
		if got.Value != tt.wantValue || got.Source != tt.wantSource {
			t.Errorf("%s: MergeLabel = %+v, 期望 Value=%s Source=%s",
				tt.name, got, tt.wantValue, tt.wantSource)
		}
	}
}
