package merge

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		valid   bool
	}{
		{name: "defaults", options: DefaultOptions(), valid: true},
		{name: "custom", options: Options{TargetAlias: "tgt", SourceAlias: "src_1", CommitEvery: 1}, valid: true},
		{name: "empty target", options: Options{TargetAlias: "", SourceAlias: "s", CommitEvery: 1}},
		{name: "empty source", options: Options{TargetAlias: "t", SourceAlias: "", CommitEvery: 1}},
		{name: "same alias", options: Options{TargetAlias: "a", SourceAlias: "A", CommitEvery: 1}},
		{name: "not an identifier", options: Options{TargetAlias: "t x", SourceAlias: "s", CommitEvery: 1}},
		{name: "starts with digit", options: Options{TargetAlias: "t", SourceAlias: "1s", CommitEvery: 1}},
		{name: "reserved word", options: Options{TargetAlias: "on", SourceAlias: "s", CommitEvery: 1}},
		{name: "zero commit interval", options: Options{TargetAlias: "t", SourceAlias: "s", CommitEvery: 0}},
		{name: "negative commit interval", options: Options{TargetAlias: "t", SourceAlias: "s", CommitEvery: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidOptions))
			}
		})
	}
}
